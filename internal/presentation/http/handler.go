// Package httppresentation exposes the HTTP surface: auth, orders and
// products. Handlers persist and read through the repositories and submit
// the durable workflows; business decisions live in the workflow
// activities, never here.
package httppresentation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	domainOrder "github.com/shopworks/fulfillment/internal/domain/order"
	domainProduct "github.com/shopworks/fulfillment/internal/domain/product"
	domainUser "github.com/shopworks/fulfillment/internal/domain/user"
	authwf "github.com/shopworks/fulfillment/internal/workflow/auth"
	orderwf "github.com/shopworks/fulfillment/internal/workflow/order"
	productwf "github.com/shopworks/fulfillment/internal/workflow/product"
)

// WorkflowClient is the slice of the Temporal client the handlers need;
// narrowing it keeps them testable without a running server.
type WorkflowClient interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// defaultUserID stands in for the authenticated caller until token-based
// request auth is wired through the order endpoints.
const defaultUserID uint = 1

const syncWorkflowTimeout = 30 * time.Second

type Handler struct {
	orders    domainOrder.Repository
	products  domainProduct.Repository
	wf        WorkflowClient
	taskQueue string
	log       *zap.Logger
	metrics   *Metrics
}

func NewHandler(
	orders domainOrder.Repository,
	products domainProduct.Repository,
	wf WorkflowClient,
	taskQueue string,
	logger *zap.Logger,
	metrics *Metrics,
) *Handler {
	if logger == nil {
		logger = zap.L()
	}
	return &Handler{
		orders:    orders,
		products:  products,
		wf:        wf,
		taskQueue: taskQueue,
		log:       logger.With(zap.String("component", "http_server")),
		metrics:   metrics,
	}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	h.handle(mux, "POST /auth/register", h.handleRegister)
	h.handle(mux, "POST /auth/login", h.handleLogin)

	h.handle(mux, "POST /orders", h.handleCreateOrder)
	h.handle(mux, "GET /orders", h.handleListOrders)
	h.handle(mux, "GET /orders/{id}", h.handleGetOrder)

	h.handle(mux, "POST /products", h.handleCreateProduct)
	h.handle(mux, "GET /products", h.handleListProducts)
	h.handle(mux, "GET /products/low-stock", h.handleLowStock)
	h.handle(mux, "GET /products/{id}", h.handleGetProduct)
	h.handle(mux, "PATCH /products/{id}/stock", h.handleUpdateStock)

	h.handle(mux, "GET /healthz", h.handleHealth)

	return mux
}

// handle wires each route with middlewares:
// trace -> HTTP metrics -> access log -> handler.
func (h *Handler) handle(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	wrapped := h.withTrace(h.withHTTPMetrics(h.withAccessLog(fn)))
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(contextWithRoute(r.Context(), pattern))
		wrapped.ServeHTTP(w, r)
	})
}

// --- auth ---

type credentialsRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	h.runAuthWorkflow(w, r, authwf.Register, http.StatusBadRequest)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	h.runAuthWorkflow(w, r, authwf.Login, http.StatusUnauthorized)
}

func (h *Handler) runAuthWorkflow(w http.ResponseWriter, r *http.Request, wf interface{}, failStatus int) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, errors.New("username and password are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), syncWorkflowTimeout)
	defer cancel()

	var result authwf.TokenResult
	err := h.runSync(ctx, "auth", client.StartWorkflowOptions{
		ID:        fmt.Sprintf("auth-workflow-%s", req.Username),
		TaskQueue: h.taskQueue,
	}, wf, &result, authwf.Input{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !result.OK() {
		writeError(w, failStatus, errors.New(result.Reason))
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
	})
}

// --- orders ---

type createOrderRequest struct {
	ProductName     string  `json:"product_name"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
	ShippingAddress string  `json:"shipping_address"`
}

type orderResponse struct {
	ID              uint    `json:"id"`
	UserID          uint    `json:"user_id"`
	ProductName     string  `json:"product_name"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
	TotalAmount     float64 `json:"total_amount"`
	ShippingAddress string  `json:"shipping_address"`
	Status          string  `json:"status"`
	FailureReason   string  `json:"failure_reason"`
}

func toOrderResponse(o *domainOrder.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		ProductName:     o.ProductName,
		Quantity:        o.Quantity,
		Price:           o.Price,
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		Status:          string(o.Status),
		FailureReason:   string(o.FailureReason),
	}
}

// handleCreateOrder persists the order in received status and starts the
// fulfillment saga asynchronously. The workflow id carries a random suffix
// so independent submissions for the same order id never collide.
func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	o, err := domainOrder.New(defaultUserID, req.ProductName, req.Quantity, req.Price, req.ShippingAddress)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.orders.Create(r.Context(), o); err != nil {
		writeDomainError(w, err)
		return
	}

	_, err = h.wf.ExecuteWorkflow(r.Context(), client.StartWorkflowOptions{
		ID:        fmt.Sprintf("order-workflow-%d-%s", o.ID, uuid.NewString()),
		TaskQueue: h.taskQueue,
	}, orderwf.Fulfillment, o.ID)
	if err != nil {
		h.metrics.Submissions.WithLabelValues("order_fulfillment", "error").Inc()
		// The order must not linger in received; mark it failed so its
		// state reflects that no saga owns it.
		if failErr := h.orders.MarkFailed(r.Context(), o.ID, domainOrder.FailureSubmission); failErr != nil {
			h.log.Error("mark_submission_failure", zap.Uint("order_id", o.ID), zap.Error(failErr))
		}
		writeError(w, http.StatusInternalServerError,
			fmt.Errorf("failed to start order workflow: %w", err))
		return
	}
	h.metrics.Submissions.WithLabelValues("order_fulfillment", "success").Inc()

	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	orders, err := h.orders.List(r.Context(), offset, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	o, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// --- products ---

type createProductRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	Category      string  `json:"category"`
}

type productResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	Category      string    `json:"category"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toProductResponse(p *domainProduct.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Category:      string(p.Category),
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// handleCreateProduct runs the creation process synchronously. The
// workflow id is derived from the product name so identical concurrent
// submissions collapse into one run.
func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	category := domainProduct.Category(req.Category)
	if req.Category != "" && !category.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown category %q", req.Category))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), syncWorkflowTimeout)
	defer cancel()

	var result productwf.CreateResult
	err := h.runSync(ctx, "product_create", client.StartWorkflowOptions{
		ID:        fmt.Sprintf("product-create-%s", req.Name),
		TaskQueue: h.taskQueue,
	}, productwf.Create, &result, productwf.CreateInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Category:      category,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !result.OK {
		writeError(w, http.StatusBadRequest, errors.New(result.Reason))
		return
	}

	p, err := h.products.Get(ctx, result.ProductID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(p))
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	products, err := h.products.List(r.Context(), offset, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := h.products.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (h *Handler) handleLowStock(w http.ResponseWriter, r *http.Request) {
	threshold := 10
	if v := r.URL.Query().Get("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid threshold %q", v))
			return
		}
		threshold = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), syncWorkflowTimeout)
	defer cancel()

	var report domainProduct.LowStockReport
	err := h.runSync(ctx, "product_low_stock", client.StartWorkflowOptions{
		ID:        "product-low-stock-check",
		TaskQueue: h.taskQueue,
	}, productwf.InventoryCheck, &report, threshold)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type stockUpdateRequest struct {
	QuantityChange int `json:"quantity_change"`
}

// handleUpdateStock runs the inventory-adjustment process synchronously.
// The workflow id is keyed by product id alone: concurrent updates for the
// same product deduplicate on the substrate side while the repository's
// conditional update guards the invariant.
func (h *Handler) handleUpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req stockUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), syncWorkflowTimeout)
	defer cancel()

	var result productwf.StockUpdateResult
	err = h.runSync(ctx, "product_stock_update", client.StartWorkflowOptions{
		ID:        fmt.Sprintf("product-stock-update-%d", id),
		TaskQueue: h.taskQueue,
	}, productwf.StockUpdate, &result, productwf.StockUpdateInput{
		ProductID: id,
		Delta:     req.QuantityChange,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !result.OK() {
		writeError(w, http.StatusBadRequest, errors.New(result.Reason))
		return
	}

	p, err := h.products.Get(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// runSync submits a workflow and blocks on its result.
func (h *Handler) runSync(ctx context.Context, name string, opts client.StartWorkflowOptions, wf interface{}, out interface{}, args ...interface{}) error {
	run, err := h.wf.ExecuteWorkflow(ctx, opts, wf, args...)
	if err != nil {
		h.metrics.Submissions.WithLabelValues(name, "error").Inc()
		return fmt.Errorf("failed to start %s workflow: %w", name, err)
	}
	h.metrics.Submissions.WithLabelValues(name, "success").Inc()
	if err := run.Get(ctx, out); err != nil {
		return fmt.Errorf("%s workflow failed: %w", name, err)
	}
	return nil
}

// --- helpers ---

func pathID(r *http.Request) (uint, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

func pagination(r *http.Request) (offset, limit int) {
	offset, limit = 0, 100
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return offset, limit
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainOrder.ErrNotFound),
		errors.Is(err, domainProduct.ErrNotFound),
		errors.Is(err, domainUser.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domainOrder.ErrInvalidQuantity),
		errors.Is(err, domainOrder.ErrInvalidPrice),
		errors.Is(err, domainProduct.ErrInvalidPrice),
		errors.Is(err, domainProduct.ErrInvalidStock),
		errors.Is(err, domainProduct.ErrInsufficientStock),
		errors.Is(err, domainUser.ErrConflict):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
