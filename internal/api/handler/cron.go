package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeSalesRefresh = "sales-refresh"
	CronJobTypeAll          = "all"
)

// ManualSyncer é um agendador que pode ser disparado pela API
type ManualSyncer interface {
	TriggerManualSync()
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	SalesRefreshService ManualSyncer
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		logger.Info("INIT - RunCronJob")

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypeSalesRefresh, CronJobTypeAll:
			if services.SalesRefreshService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de atualização da planilha não disponível", nil)
				return
			}
			services.SalesRefreshService.TriggerManualSync()
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: sales-refresh, all", nil)
			return
		}

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.SalesRefreshService != nil {
			status[CronJobTypeSalesRefresh] = services.SalesRefreshService.GetStatus()
		}

		writeJSON(w, r, http.StatusOK, status)
	}
}
