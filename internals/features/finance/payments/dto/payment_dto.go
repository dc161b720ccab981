// file: internals/features/finance/payments/dto/payment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	paymentModel "schoolpay_backend/internals/features/finance/payments/model"
)

////////////////////////////////////////////////////////////////////////////////
// PAYMENTS - DTO
////////////////////////////////////////////////////////////////////////////////

type PaymentCreateDTO struct {
	FeeRecordID uuid.UUID `json:"fee_record_id" validate:"required"`
	AmountCents int64     `json:"amount_cents" validate:"required,min=1"`
	PayerName   string    `json:"payer_name" validate:"required,min=2,max=120"`
	PayerEmail  string    `json:"payer_email" validate:"required,email"`
}

type PaymentResponse struct {
	PaymentID   uuid.UUID                  `json:"payment_id"`
	SchoolID    uuid.UUID                  `json:"school_id"`
	FeeRecordID uuid.UUID                  `json:"fee_record_id"`
	OrderID     string                     `json:"order_id"`
	AmountCents int64                      `json:"amount_cents"`
	Status      paymentModel.PaymentStatus `json:"status"`
	SnapToken   *string                    `json:"snap_token,omitempty"`
	SettledAt   *time.Time                 `json:"settled_at,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
}

func NewPaymentResponse(m *paymentModel.PaymentModel) PaymentResponse {
	return PaymentResponse{
		PaymentID:   m.PaymentID,
		SchoolID:    m.PaymentSchoolID,
		FeeRecordID: m.PaymentFeeRecordID,
		OrderID:     m.PaymentOrderID,
		AmountCents: m.PaymentAmountCents,
		Status:      m.PaymentStatus,
		SnapToken:   m.PaymentSnapToken,
		SettledAt:   m.PaymentSettledAt,
		CreatedAt:   m.PaymentCreatedAt,
	}
}
