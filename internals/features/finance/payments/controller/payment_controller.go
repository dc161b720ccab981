// file: internals/features/finance/payments/controller/payment_controller.go
package controller

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	feeModel "schoolpay_backend/internals/features/finance/fees/model"
	feeService "schoolpay_backend/internals/features/finance/fees/service"
	"schoolpay_backend/internals/features/finance/payments/dto"
	paymentModel "schoolpay_backend/internals/features/finance/payments/model"
	paymentService "schoolpay_backend/internals/features/finance/payments/service"
	helper "schoolpay_backend/internals/helpers"
)

var validate = validator.New()

type PaymentController struct {
	DB   *gorm.DB
	Fees *feeService.Service
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db, Fees: feeService.NewService(db)}
}

// -----------------------------------------
// Create (POST /payments) - pending row + Snap token
// -----------------------------------------
func (h *PaymentController) Create(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.PaymentCreateDTO
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	// Fee record must belong to the caller's school.
	var rec feeModel.FeeRecordModel
	if err := h.DB.
		Where("fee_record_id = ? AND fee_record_school_id = ?", body.FeeRecordID, schoolID).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "fee record not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	row := paymentModel.PaymentModel{
		PaymentSchoolID:    schoolID,
		PaymentFeeRecordID: rec.FeeRecordID,
		PaymentOrderID:     fmt.Sprintf("FEE-%d%d-%s", rec.FeeRecordYear, rec.FeeRecordTerm, uuid.NewString()[:8]),
		PaymentAmountCents: body.AmountCents,
		PaymentStatus:      paymentModel.PaymentStatusPending,
	}

	token, err := paymentService.GenerateSnapToken(row.PaymentOrderID, row.PaymentAmountCents, body.PayerName, body.PayerEmail)
	if err != nil {
		// Gateway trouble still leaves an auditable pending row.
		log.Printf("[PAYMENT] snap token failed order=%s err=%v", row.PaymentOrderID, err)
	} else {
		row.PaymentSnapToken = &token
	}

	if err := h.DB.Create(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "payment created", dto.NewPaymentResponse(&row))
}

// -----------------------------------------
// Settle (POST /payments/:id/settle) - applies the amount to the fee record
// -----------------------------------------
func (h *PaymentController) Settle(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payment id")
	}

	var row paymentModel.PaymentModel
	if err := h.DB.
		Where("payment_id = ? AND payment_school_id = ?", id, schoolID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "payment not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if row.PaymentStatus != paymentModel.PaymentStatusPending {
		return helper.JsonError(c, fiber.StatusConflict, "only a pending payment can be settled")
	}

	if _, err := h.Fees.ApplyPayment(c.UserContext(), schoolID, row.PaymentFeeRecordID, row.PaymentAmountCents); err != nil {
		return helper.FromFiberError(c, err)
	}

	now := time.Now()
	row.PaymentStatus = paymentModel.PaymentStatusSettled
	row.PaymentSettledAt = &now
	if err := h.DB.Save(&row).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "payment settled", dto.NewPaymentResponse(&row))
}
