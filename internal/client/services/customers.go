// Package services contains the application services behind the client
// REPL: customer intake, the invoice builder and archive synchronization.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/autobody/internal/client/models"
	"github.com/dmitrijs2005/autobody/internal/client/repositories/customers"
	"github.com/dmitrijs2005/autobody/internal/invoice"
)

var (
	ErrCustomerNameRequired = errors.New("customer name is required")
	ErrInvalidEmail         = errors.New("invalid email address")
)

// CustomerService manages the shop's customer list.
type CustomerService interface {
	// Add validates and stores a new customer. ID and CreatedAt are assigned.
	Add(ctx context.Context, c models.Customer) (*models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
	Get(ctx context.Context, id string) (*models.Customer, error)
	Delete(ctx context.Context, id string) error
}

type customerService struct {
	repo customers.Repository
	now  func() time.Time
}

func NewCustomerService(repo customers.Repository) CustomerService {
	return &customerService{repo: repo, now: time.Now}
}

// ValidateCustomer applies the intake rules: a name is required and an
// email, when given, must look like local@domain.tld.
func ValidateCustomer(c models.Customer) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrCustomerNameRequired
	}
	if c.Email != "" && !invoice.ValidateEmail(c.Email) {
		return ErrInvalidEmail
	}
	return nil
}

func (s *customerService) Add(ctx context.Context, c models.Customer) (*models.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	if err := ValidateCustomer(c); err != nil {
		return nil, err
	}

	c.ID = uuid.NewString()
	c.CreatedAt = s.now().UTC()
	c.Vehicle.Plate = models.NormalizePlate(c.Vehicle.Plate)

	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, fmt.Errorf("error saving customer: %w", err)
	}
	return &c, nil
}

func (s *customerService) List(ctx context.Context) ([]models.Customer, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing customers: %w", err)
	}
	return list, nil
}

func (s *customerService) Get(ctx context.Context, id string) (*models.Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving customer: %w", err)
	}
	return c, nil
}

func (s *customerService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("error deleting customer: %w", err)
	}
	return nil
}
