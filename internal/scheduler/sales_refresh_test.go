package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/selling/mocks"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"go.uber.org/mock/gomock"
)

func newRefreshService(t *testing.T, enabled bool) (*SalesRefreshService, *mocks.MockSeller) {
	t.Helper()
	log.SetupTestLogger()

	ctrl := gomock.NewController(t)
	seller := mocks.NewMockSeller(ctrl)

	cfg := &config.Config{}
	cfg.SalesRefresh = config.SalesRefresh{IntervalSeconds: 60, Enabled: enabled}
	cfg.Spreadsheet = config.Spreadsheet{TimeoutSeconds: 5}

	return NewSalesRefreshService(seller, cfg), seller
}

func TestRefreshSalesRecordsStatus(t *testing.T) {
	service, seller := newRefreshService(t, true)

	gomock.InOrder(
		seller.EXPECT().Refresh(gomock.Any()).Return(errors.New("planilha fora do ar")),
		seller.EXPECT().Refresh(gomock.Any()).Return(nil),
	)

	service.refreshSales()
	status := service.GetStatus()
	assert.Equal(t, "planilha fora do ar", status["last_sync_error"])
	assert.Equal(t, 1, status["runs"])
	assert.Equal(t, false, status["sync_running"])

	service.refreshSales()
	status = service.GetStatus()
	assert.Equal(t, "", status["last_sync_error"])
	assert.Equal(t, 2, status["runs"])
}

func TestRefreshSalesSkipsWhenAlreadyRunning(t *testing.T) {
	service, seller := newRefreshService(t, true)
	seller.EXPECT().Refresh(gomock.Any()).Times(0)

	service.syncRunning = true
	service.refreshSales()
	service.TriggerManualSync()

	assert.Equal(t, 0, service.GetStatus()["runs"])
}

func TestRefreshSalesAppliesTimeout(t *testing.T) {
	service, seller := newRefreshService(t, true)

	seller.EXPECT().Refresh(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		deadline, ok := ctx.Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
		return nil
	})

	service.refreshSales()
}

func TestTriggerManualSync(t *testing.T) {
	service, seller := newRefreshService(t, true)

	done := make(chan struct{})
	seller.EXPECT().Refresh(gomock.Any()).DoAndReturn(func(context.Context) error {
		close(done)
		return nil
	})

	service.TriggerManualSync()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("atualização manual não executou")
	}

	require.Eventually(t, func() bool {
		return service.GetStatus()["runs"] == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStartRunsImmediatelyAndStopsWithContext(t *testing.T) {
	service, seller := newRefreshService(t, true)

	ran := make(chan struct{}, 1)
	seller.EXPECT().Refresh(gomock.Any()).DoAndReturn(func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}).MinTimes(1)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, service.Start(ctx))

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("primeira atualização não executou")
	}

	cancel()
	require.Eventually(t, func() bool {
		return !service.scheduler.IsRunning()
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStartDisabled(t *testing.T) {
	service, seller := newRefreshService(t, false)
	seller.EXPECT().Refresh(gomock.Any()).Times(0)

	require.NoError(t, service.Start(context.Background()))
	assert.False(t, service.scheduler.IsRunning())
	assert.Equal(t, false, service.GetStatus()["sync_enabled"])
}
