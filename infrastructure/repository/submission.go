package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

//go:generate mockgen -source=submission.go -destination=mocks/mock_submission.go -package=mocks

const (
	submissionsTable = "sale_submissions"

	defaultSubmissionsLimit = 50
	maxSubmissionsLimit     = 500
)

var submissionColumns = []string{
	"id", "sale_date", "card", "cash", "pix", "total", "status", "message", "created_at",
}

// SubmissionRepository guarda a auditoria dos envios do formulário
type SubmissionRepository interface {
	Save(ctx context.Context, submission *domain.Submission) error
	ListRecent(ctx context.Context, limit int) ([]*domain.Submission, error)
}

type submissionRepository struct {
	conn postgres.Queryer
}

func NewSubmissionRepository(conn postgres.Queryer) SubmissionRepository {
	return &submissionRepository{
		conn: conn,
	}
}

func (r *submissionRepository) Save(ctx context.Context, submission *domain.Submission) error {
	query, args, err := insertSubmissionQuery(submission).ToSql()
	if err != nil {
		return err
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "repository: falha ao salvar envio %s", submission.ID)
	}

	return nil
}

func (r *submissionRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Submission, error) {
	query, args, err := listSubmissionsQuery(limit).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "repository: falha ao listar envios")
	}
	defer rows.Close()

	submissions := make([]*domain.Submission, 0)
	for rows.Next() {
		var (
			s       domain.Submission
			status  string
			message sql.NullString
		)

		if err := rows.Scan(&s.ID, &s.SaleDate, &s.Card, &s.Cash, &s.Pix, &s.Total, &status, &message, &s.CreatedAt); err != nil {
			return nil, err
		}

		s.Status = domain.SubmissionStatus(status)
		s.Message = message.String

		submissions = append(submissions, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return submissions, nil
}

func insertSubmissionQuery(s *domain.Submission) squirrel.InsertBuilder {
	return squirrel.
		Insert(submissionsTable).
		Columns(submissionColumns...).
		Values(
			s.ID,
			s.SaleDate,
			s.Card.StringFixed(2),
			s.Cash.StringFixed(2),
			s.Pix.StringFixed(2),
			s.Total.StringFixed(2),
			string(s.Status),
			s.Message,
			s.CreatedAt,
		).
		PlaceholderFormat(squirrel.Dollar)
}

func listSubmissionsQuery(limit int) squirrel.SelectBuilder {
	if limit <= 0 {
		limit = defaultSubmissionsLimit
	}
	if limit > maxSubmissionsLimit {
		limit = maxSubmissionsLimit
	}

	return squirrel.
		Select(submissionColumns...).
		From(submissionsTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)
}

// NopSubmissionRepository é usado quando a auditoria está desabilitada
type NopSubmissionRepository struct{}

func (NopSubmissionRepository) Save(context.Context, *domain.Submission) error { return nil }

func (NopSubmissionRepository) ListRecent(context.Context, int) ([]*domain.Submission, error) {
	return []*domain.Submission{}, nil
}
