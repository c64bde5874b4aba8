package travel

import (
	"time"

	"github.com/google/uuid"
	"github.com/tourops/backend/internal/domain/shared"
	"github.com/tourops/backend/internal/domain/shared/valueobject"
)

// InsurancePolicy is a travel insurance policy sold by the agency on behalf
// of an insurer. The agency keeps the commission; the premium net of
// commission is forwarded to the insurer.
type InsurancePolicy struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time

	InsuredName    string
	TotalPremium   valueobject.Money
	Commission     valueobject.Money
	PaidByCustomer bool
	PaidToInsurer  bool
}

// NewInsurancePolicy creates a validated policy
func NewInsurancePolicy(insuredName string, totalPremium, commission valueobject.Money) (*InsurancePolicy, error) {
	if insuredName == "" {
		return nil, shared.NewDomainError("INVALID_INSURED", "Insured name is required")
	}
	now := time.Now()
	return &InsurancePolicy{
		ID:           uuid.New(),
		CreatedAt:    now,
		UpdatedAt:    now,
		InsuredName:  insuredName,
		TotalPremium: totalPremium,
		Commission:   commission,
	}, nil
}

// MarkPaidByCustomer records that the customer has paid the premium
func (p *InsurancePolicy) MarkPaidByCustomer() {
	p.PaidByCustomer = true
	p.UpdatedAt = time.Now()
}

// MarkPaidToInsurer records that the premium was forwarded to the insurer
func (p *InsurancePolicy) MarkPaidToInsurer() {
	p.PaidToInsurer = true
	p.UpdatedAt = time.Now()
}
