package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"optistore/internal/model"
)

type CustomerRepository interface {
	WithTx(tx *gorm.DB) CustomerRepository
	Create(ctx context.Context, customer *model.Customer) error
	Update(ctx context.Context, customer *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	FindDetails(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	Search(ctx context.Context, accountID uuid.UUID, term string) ([]model.Customer, error)
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) WithTx(tx *gorm.DB) CustomerRepository {
	return &customerRepo{tx}
}

func (r *customerRepo) Create(ctx context.Context, customer *model.Customer) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(customer).Error, "customer")
}

func (r *customerRepo) Update(ctx context.Context, customer *model.Customer) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(customer).Error, "customer")
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, translate(err, "customer")
	}
	return &customer, nil
}

// FindDetails loads the customer with history (newest first), purchases,
// prescriptions and bills.
func (r *customerRepo) FindDetails(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("date DESC") }).
		Preload("Purchases", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Prescriptions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Bills", func(db *gorm.DB) *gorm.DB { return db.Order("date DESC") }).
		Preload("Bills.Products").
		First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "customer")
	}
	return &customer, nil
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches term case-insensitively against first name, last name,
// phone and email. An empty term lists every customer of the account.
func (r *customerRepo) Search(ctx context.Context, accountID uuid.UUID, term string) ([]model.Customer, error) {
	var customers []model.Customer
	q := r.db.WithContext(ctx).Where("account_id = ?", accountID)
	if term = strings.TrimSpace(term); term != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		q = q.Where(
			`(LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\' OR `+
				`LOWER(COALESCE(phone, '')) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`,
			like, like, like, like,
		)
	}
	err := q.Order("created_at DESC").Order("id").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}

// Delete removes the customer and everything hanging off it. Sales keep
// their rows with the customer cleared. Must run inside a transaction.
func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Sale{}).Where("customer_id = ?", id).UpdateColumn("customer_id", nil).Error; err != nil {
		return err
	}
	billIDs := db.Model(&model.Bill{}).Select("id").Where("customer_id = ?", id)
	if err := db.Exec("DELETE FROM bill_products WHERE bill_id IN (?)", billIDs).Error; err != nil {
		return err
	}
	if err := db.Where("customer_id = ?", id).Delete(&model.Bill{}).Error; err != nil {
		return err
	}
	if err := db.Where("customer_id = ?", id).Delete(&model.Prescription{}).Error; err != nil {
		return err
	}
	if err := db.Where("customer_id = ?", id).Delete(&model.Purchase{}).Error; err != nil {
		return err
	}
	if err := db.Where("customer_id = ?", id).Delete(&model.CustomerHistory{}).Error; err != nil {
		return err
	}

	result := db.Delete(&model.Customer{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error, "customer")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "customer")
	}
	return nil
}
