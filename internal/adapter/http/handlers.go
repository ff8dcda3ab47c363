package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gofiber/fiber/v3"

	"github.com/bowenxiang/blockorder-bsc-service/internal/core/entity"
	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/apperr"
	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/applog"
)

// OrderingChecker is the slice of the ordering service the handlers need.
type OrderingChecker interface {
	CheckBlock(ctx context.Context, number uint64) (*entity.OrderingReport, error)
}

// ContractValuesReader is the slice of the contract service the handlers need.
type ContractValuesReader interface {
	Values(ctx context.Context) (*entity.ContractValues, error)
}

type Handler struct {
	log      applog.AppLogger
	ordering OrderingChecker
	contract ContractValuesReader
}

func NewHandler(log applog.AppLogger, ordering OrderingChecker, contract ContractValuesReader) *Handler {
	return &Handler{log: log, ordering: ordering, contract: contract}
}

func Health(ctx fiber.Ctx) error {
	ctx.Status(fiber.StatusOK)
	_ = ctx.JSON("UP!")
	return nil
}

type orderingResponse struct {
	Number         uint64 `json:"number"`
	Ordered        bool   `json:"ordered"`
	BaseFee        string `json:"baseFee,omitempty"`
	CheckedTxs     int    `json:"checkedTxs"`
	SkippedTxs     int    `json:"skippedTxs"`
	ViolationIndex int    `json:"violationIndex"`
}

type contractResponse struct {
	MerkleRoot   string `json:"merkleRoot"`
	AdminHasRole bool   `json:"adminHasRole"`
	OwnerPrime   string `json:"ownerPrime,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BlockOrdering handles GET /blocks/:number/ordering.
func (h *Handler) BlockOrdering(c fiber.Ctx) error {
	number, err := strconv.ParseUint(c.Params("number"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Code:    "INVALID_ARGUMENT",
			Message: "block number must be a non-negative integer",
		})
	}

	report, err := h.ordering.CheckBlock(c.Context(), number)
	if err != nil {
		return h.fail(c, err)
	}

	resp := orderingResponse{
		Number:         report.Number,
		Ordered:        report.Ordered,
		CheckedTxs:     report.CheckedTxs,
		SkippedTxs:     report.SkippedTxs,
		ViolationIndex: report.ViolationIndex,
	}
	if report.BaseFee != nil {
		resp.BaseFee = report.BaseFee.String()
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// ContractValues handles GET /contract/values.
func (h *Handler) ContractValues(c fiber.Ctx) error {
	values, err := h.contract.Values(c.Context())
	if err != nil {
		return h.fail(c, err)
	}

	resp := contractResponse{
		MerkleRoot:   hexutil.Encode(values.MerkleRoot[:]),
		AdminHasRole: values.AdminHasRole,
	}
	if values.OwnerPrime != nil {
		resp.OwnerPrime = values.OwnerPrime.String()
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// fail maps typed application errors to HTTP statuses. Upstream chain and
// contract failures surface as 502 so callers can tell them apart from a
// verified negative result.
func (h *Handler) fail(c fiber.Ctx, err error) error {
	var (
		invalidErr  *apperr.InvalidArgErr
		orderErr    *apperr.OrderCheckErr
		chainErr    *apperr.ChainReadErr
		contractErr *apperr.ContractCallErr
	)

	status := fiber.StatusInternalServerError
	code := "INTERNAL_ERROR"
	switch {
	case errors.As(err, &invalidErr):
		status = fiber.StatusBadRequest
		code = invalidErr.Code()
	case errors.As(err, &orderErr):
		status = fiber.StatusBadGateway
		code = orderErr.Code()
	case errors.As(err, &chainErr):
		status = fiber.StatusBadGateway
		code = chainErr.Code()
	case errors.As(err, &contractErr):
		status = fiber.StatusBadGateway
		code = contractErr.Code()
	}

	h.log.Error("Request failed", "path", c.Path(), "status", status, "err", err)
	return c.Status(status).JSON(errorResponse{Code: code, Message: err.Error()})
}
