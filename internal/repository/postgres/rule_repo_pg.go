package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

var ruleWritable = []string{"package_id", "rule", "display_order"}

type RuleRepository struct {
	tables map[domain.RuleKind]*Table[domain.PackageRule]
}

var _ ports.RuleRepository = (*RuleRepository)(nil)

func NewRuleRepo(db sqlx.ExtContext) *RuleRepository {
	return &RuleRepository{
		tables: map[domain.RuleKind]*Table[domain.PackageRule]{
			domain.RuleKindBooking:      NewTable[domain.PackageRule](db, "package_booking_rules", withID(ruleWritable), ruleWritable),
			domain.RuleKindCancellation: NewTable[domain.PackageRule](db, "package_cancellation_rules", withID(ruleWritable), ruleWritable),
		},
	}
}

func (r *RuleRepository) table(kind domain.RuleKind) (*Table[domain.PackageRule], error) {
	t, ok := r.tables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown rule kind %q", kind)
	}
	return t, nil
}

func (r *RuleRepository) ListByPackage(ctx context.Context, kind domain.RuleKind, packageID uuid.UUID) ([]domain.PackageRule, error) {
	t, err := r.table(kind)
	if err != nil {
		return nil, err
	}
	return t.Select(ctx, Query{
		Filters: []Filter{Eq("package_id", packageID)},
		Order:   displayOrder,
	})
}

func (r *RuleRepository) CreateMany(ctx context.Context, kind domain.RuleKind, rules []domain.PackageRule) error {
	t, err := r.table(kind)
	if err != nil {
		return err
	}
	_, err = t.Insert(ctx, rules...)
	return err
}

func (r *RuleRepository) DeleteByPackage(ctx context.Context, kind domain.RuleKind, packageID uuid.UUID) error {
	t, err := r.table(kind)
	if err != nil {
		return err
	}
	_, err = t.Delete(ctx, Eq("package_id", packageID))
	return err
}
