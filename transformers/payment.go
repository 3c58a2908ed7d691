package transformers

import (
	"github.com/kodlan/sait-paypal/models"
)

// PaymentTransformer transforms payment resource data between rest and database models
type PaymentTransformer struct{}

// TransformToDB transforms payment resource rest model into payment resource database model
func (pt PaymentTransformer) TransformToDB(rest models.PaymentResourceRest) models.PaymentResourceDB {
	return models.PaymentResourceDB{
		ID:            rest.ID,
		Amount:        rest.Amount,
		Percentage:    rest.Percentage,
		PayPalOrderID: rest.PayPalOrderID,
		Status:        rest.Status,
		CreatedAt:     rest.CreatedAt,
		CapturedAt:    rest.CapturedAt,
	}
}

// TransformToRest transforms payment resource database model into payment resource rest model
func (pt PaymentTransformer) TransformToRest(dbResource models.PaymentResourceDB) models.PaymentResourceRest {
	return models.PaymentResourceRest{
		ID:            dbResource.ID,
		Amount:        dbResource.Amount,
		Percentage:    dbResource.Percentage,
		PayPalOrderID: dbResource.PayPalOrderID,
		Status:        dbResource.Status,
		CreatedAt:     dbResource.CreatedAt,
		CapturedAt:    dbResource.CapturedAt,
	}
}
