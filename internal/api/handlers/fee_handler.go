package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/sewa-org/sewa-backend/internal/models"
	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/service"
)

// ============================================
// Membership Fee Handler
// ============================================

type FeeHandler struct {
	feeService    service.FeeService
	memberService service.MemberService
}

func (h *FeeHandler) Record(c *gin.Context) {
	var req models.FeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}

	fee := &repository.MembershipFee{
		MemberID:      req.MemberID,
		Amount:        amount,
		PaymentStatus: req.PaymentStatus,
		TransactionID: req.TransactionID,
		FeeType:       req.FeeType,
		FinancialYear: req.FinancialYear,
		Remarks:       req.Remarks,
	}
	if req.PaymentDate != nil {
		paymentDate, err := time.Parse("2006-01-02", *req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paymentDate, expected YYYY-MM-DD"})
			return
		}
		fee.PaymentDate = paymentDate
	}

	created, err := h.feeService.Record(c.Request.Context(), fee)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFeeResponse(created))
}

func (h *FeeHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	fee, err := h.feeService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFeeResponse(fee))
}

func (h *FeeHandler) List(c *gin.Context) {
	filter := repository.FeeFilter{}
	if v := c.Query("status"); v != "" {
		filter.PaymentStatus = &v
	}
	if v := c.Query("financialYear"); v != "" {
		filter.FinancialYear = &v
	}
	if v := c.Query("q"); v != "" {
		filter.Query = &v
	}

	fees, err := h.feeService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFeeResponses(fees))
}

func (h *FeeHandler) ListByMember(c *gin.Context) {
	memberID, ok := idParam(c, "id")
	if !ok {
		return
	}
	fees, err := h.feeService.ListByMember(c.Request.Context(), memberID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFeeResponses(fees))
}

// ListByCode resolves a membership code to its member and returns that
// member's payment history.
func (h *FeeHandler) ListByCode(c *gin.Context) {
	member, err := h.memberService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	fees, err := h.feeService.ListByMember(c.Request.Context(), member.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFeeResponses(fees))
}

func (h *FeeHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	existing, err := h.feeService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.FeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}

	fee := &repository.MembershipFee{
		ID:            id,
		MemberID:      existing.MemberID,
		Amount:        amount,
		PaymentStatus: req.PaymentStatus,
		PaymentDate:   existing.PaymentDate,
		TransactionID: req.TransactionID,
		FeeType:       req.FeeType,
		FinancialYear: req.FinancialYear,
		Remarks:       req.Remarks,
	}
	if fee.PaymentStatus == "" {
		fee.PaymentStatus = existing.PaymentStatus
	}
	if fee.FinancialYear == "" {
		fee.FinancialYear = existing.FinancialYear
	}
	if fee.TransactionID == nil {
		fee.TransactionID = existing.TransactionID
	}
	if req.PaymentDate != nil {
		paymentDate, err := time.Parse("2006-01-02", *req.PaymentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paymentDate, expected YYYY-MM-DD"})
			return
		}
		fee.PaymentDate = paymentDate
	}

	updated, err := h.feeService.Update(c.Request.Context(), fee)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFeeResponse(updated))
}

func (h *FeeHandler) Verify(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	fee, err := h.feeService.Verify(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFeeResponse(fee))
}

func (h *FeeHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.feeService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// Totals reports collected fee sums grouped by financial year
func (h *FeeHandler) Totals(c *gin.Context) {
	totals, err := h.feeService.TotalsByYear(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make(map[string]string, len(totals))
	for year, total := range totals {
		out[year] = total.StringFixed(2)
	}
	c.JSON(http.StatusOK, out)
}
