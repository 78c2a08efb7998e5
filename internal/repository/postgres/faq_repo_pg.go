package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

const faqsTable = "faqs"

var faqWritable = []string{"question", "answer"}

type FAQRepository struct {
	table *Table[domain.FAQ]
}

var _ ports.FAQRepository = (*FAQRepository)(nil)

func NewFAQRepo(db sqlx.ExtContext) *FAQRepository {
	return &FAQRepository{
		table: NewTable[domain.FAQ](db, faqsTable, append(withID(faqWritable), "created_at"), faqWritable),
	}
}

func (r *FAQRepository) List(ctx context.Context, order domain.CreatedOrder) ([]domain.FAQ, error) {
	return r.table.Select(ctx, Query{Order: []Order{createdOrder(order)}})
}

func (r *FAQRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FAQ, error) {
	return r.table.SelectOne(ctx, Eq("id", id))
}

func (r *FAQRepository) Create(ctx context.Context, faq *domain.FAQ) (*domain.FAQ, error) {
	rows, err := r.table.Insert(ctx, *faq)
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (r *FAQRepository) Update(ctx context.Context, faq *domain.FAQ) (*domain.FAQ, error) {
	n, err := r.table.Update(ctx, Patch{"question": faq.Question, "answer": faq.Answer}, Eq("id", faq.ID))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ports.NotFound("update", faqsTable)
	}
	return r.GetByID(ctx, faq.ID)
}

func (r *FAQRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.table.Delete(ctx, Eq("id", id))
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.NotFound("delete", faqsTable)
	}
	return nil
}
