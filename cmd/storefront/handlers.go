package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MikeMC777/cafe-reviews/internal/cart"
	"github.com/MikeMC777/cafe-reviews/internal/health"
	"github.com/MikeMC777/cafe-reviews/internal/httpx"
	"github.com/MikeMC777/cafe-reviews/internal/order"
	"github.com/MikeMC777/cafe-reviews/internal/product"
	"github.com/MikeMC777/cafe-reviews/internal/review"
	"github.com/MikeMC777/cafe-reviews/internal/voice"
)

type webCaller interface {
	CreateWebCall(ctx context.Context, in voice.WebCallInput) (*voice.WebCall, error)
}

type deps struct {
	Products product.Repository
	Orders   *order.Service
	Reviews  *review.Service
	Ingest   *review.Ingestor
	Voice    webCaller
	Health   *health.Checker
	Sessions sessions.Store
	Log      *zap.Logger
}

const orderDateLayout = "January 2, 2006"

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// ---------- health ----------

func healthzHandler(hc *health.Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hc != nil && !hc.Healthy() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ---------- catalog ----------

type productWithRating struct {
	product.Product
	review.Summary
}

// listProductsHandler godoc
// @Summary      List products
// @Description  Catalog with per-product rating. Optional category filter.
// @Tags         products
// @Produce      json
// @Param        category  query     string  false  "coffee | equipment"
// @Success      200       {object}  map[string][]productWithRating
// @Failure      400       {object}  map[string]string
// @Router       /api/products [get]
func listProductsHandler(products product.Repository, reviews *review.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cat := c.Query("category")
		if cat != "" && !product.ValidCategory(cat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category must be coffee or equipment"})
			return
		}
		list, err := products.List(c.Request.Context(), product.Query{Category: cat})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		ids := make([]int64, 0, len(list))
		for _, p := range list {
			ids = append(ids, p.ID)
		}
		sums, err := reviews.Summaries(c.Request.Context(), ids)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out := make([]productWithRating, 0, len(list))
		for _, p := range list {
			out = append(out, productWithRating{Product: p, Summary: sums[p.ID]})
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

type productDetail struct {
	Product product.Product `json:"product"`
	review.ProductReviews
}

// getProductHandler godoc
// @Summary      Get product
// @Description  Product with its reviews and rating summary
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  productDetail
// @Failure      404  {object}  map[string]string
// @Router       /api/products/{id} [get]
func getProductHandler(products product.Repository, reviews *review.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		p, err := products.GetByID(c.Request.Context(), id)
		if errors.Is(err, product.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		pr, err := reviews.ForProduct(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, productDetail{Product: *p, ProductReviews: *pr})
	}
}

// ---------- cart ----------

type cartView struct {
	Items     []cart.Line     `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total" swaggertype:"string" example:"25.00"`
}

func newCartView(crt *cart.Cart) cartView {
	lines := crt.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartView{Items: lines, ItemCount: crt.ItemCount(), Total: crt.Total()}
}

// repriceCart refreshes the cart against the catalog. Only a missing product
// drops a line; any other lookup failure is returned.
func repriceCart(ctx context.Context, products product.Repository, crt *cart.Cart) (bool, error) {
	current := make(map[int64]*product.Product, len(crt.Lines))
	for _, l := range crt.Lines {
		p, err := products.GetByID(ctx, l.ProductID)
		if errors.Is(err, product.ErrNotFound) {
			continue
		}
		if err != nil {
			return false, err
		}
		current[l.ProductID] = p
	}
	return crt.Reprice(func(id int64) (*product.Product, bool) {
		p, ok := current[id]
		return p, ok
	}), nil
}

func saveCart(c *gin.Context, crt *cart.Cart) bool {
	if err := cart.Save(sessions.Default(c), crt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// getCartHandler godoc
// @Summary      Current cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  cartView
// @Router       /api/cart [get]
func getCartHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		crt := cart.Load(sessions.Default(c))
		changed, err := repriceCart(c.Request.Context(), products, crt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if changed && !saveCart(c, crt) {
			return
		}
		c.JSON(http.StatusOK, newCartView(crt))
	}
}

type addToCartRequest struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0" example:"3"`
}

// addToCartHandler godoc
// @Summary      Add product to cart
// @Description  Adds with quantity 1; adding a product already in the cart is a no-op
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body      addToCartRequest  true  "Product"
// @Success      200   {object}  cartView
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/cart/items [post]
func addToCartHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		p, err := products.GetByID(c.Request.Context(), req.ProductID)
		if errors.Is(err, product.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		crt := cart.Load(sessions.Default(c))
		crt.Add(*p)
		if !saveCart(c, crt) {
			return
		}
		c.JSON(http.StatusOK, newCartView(crt))
	}
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required" example:"2"`
}

// updateCartItemHandler godoc
// @Summary      Set line quantity
// @Description  A quantity of 0 or less removes the line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        product_id  path      int                    true  "Product ID"
// @Param        body        body      updateQuantityRequest  true  "Quantity"
// @Success      200         {object}  cartView
// @Failure      400         {object}  map[string]string
// @Router       /api/cart/items/{product_id} [put]
func updateCartItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "product_id")
		if !ok {
			return
		}
		var req updateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		crt := cart.Load(sessions.Default(c))
		crt.UpdateQuantity(id, *req.Quantity)
		if !saveCart(c, crt) {
			return
		}
		c.JSON(http.StatusOK, newCartView(crt))
	}
}

// removeCartItemHandler godoc
// @Summary      Remove line
// @Tags         cart
// @Produce      json
// @Param        product_id  path      int  true  "Product ID"
// @Success      200         {object}  cartView
// @Router       /api/cart/items/{product_id} [delete]
func removeCartItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "product_id")
		if !ok {
			return
		}
		crt := cart.Load(sessions.Default(c))
		crt.Remove(id)
		if !saveCart(c, crt) {
			return
		}
		c.JSON(http.StatusOK, newCartView(crt))
	}
}

// clearCartHandler godoc
// @Summary      Clear cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  cartView
// @Router       /api/cart [delete]
func clearCartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		crt := cart.Load(sessions.Default(c))
		crt.Clear()
		if !saveCart(c, crt) {
			return
		}
		c.JSON(http.StatusOK, newCartView(crt))
	}
}

// ---------- checkout & orders ----------

func checkoutError(c *gin.Context, err error) {
	if errors.Is(err, order.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// checkoutHandler godoc
// @Summary      Place order
// @Description  Validates the payload and stores the order and its items atomically
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      order.CheckoutRequest  true  "Checkout"
// @Success      201   {object}  order.CheckoutResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/checkout [post]
func checkoutHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		o, err := orders.Checkout(c.Request.Context(), req)
		if err != nil {
			checkoutError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order.CheckoutResponse{OrderID: o.ID})
	}
}

type cartCheckoutRequest struct {
	CustomerName  string `json:"customer_name" example:"Jane Doe"`
	CustomerEmail string `json:"customer_email" example:"jane@example.com"`
}

// cartCheckoutHandler godoc
// @Summary      Checkout session cart
// @Description  Places an order from the cart at current prices and clears the cart
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      cartCheckoutRequest  true  "Customer"
// @Success      201   {object}  order.CheckoutResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/cart/checkout [post]
func cartCheckoutHandler(products product.Repository, orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		crt := cart.Load(sessions.Default(c))
		if _, err := repriceCart(c.Request.Context(), products, crt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if crt.Empty() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			return
		}

		in := order.CheckoutRequest{
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			TotalAmount:   crt.Total(),
		}
		for _, l := range crt.Lines {
			in.Items = append(in.Items, order.CheckoutItem{ProductID: l.ProductID, Quantity: l.Quantity, Price: l.UnitPrice})
		}
		o, err := orders.Checkout(c.Request.Context(), in)
		if err != nil {
			checkoutError(c, err)
			return
		}

		crt.Clear()
		if !saveCart(c, crt) {
			return
		}
		c.JSON(http.StatusCreated, order.CheckoutResponse{OrderID: o.ID})
	}
}

// listOrdersHandler godoc
// @Summary      Order history
// @Tags         orders
// @Produce      json
// @Param        email   query     string  true   "Customer email"
// @Param        limit   query     int     false  "Max rows (default 20, max 100)"
// @Param        offset  query     int     false  "Offset"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]string
// @Router       /api/orders [get]
func listOrdersHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		if offset < 0 {
			offset = 0
		}
		list, err := orders.History(c.Request.Context(), email, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": list, "limit": limit, "offset": offset})
	}
}

// getOrderHandler godoc
// @Summary      Get order
// @Description  Order with line items joined to products
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  order.Detail
// @Failure      404  {object}  map[string]string
// @Router       /api/orders/{id} [get]
func getOrderHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		d, err := orders.Get(c.Request.Context(), id)
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// ---------- voice reviews ----------

// startVoiceCallHandler godoc
// @Summary      Start voice review call
// @Description  Creates a web call whose agent asks about the products of the order
// @Tags         reviews
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  voice.WebCall
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/orders/{id}/voice-call [post]
func startVoiceCallHandler(orders *order.Service, caller webCaller, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		d, err := orders.Get(c.Request.Context(), id)
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		call, err := caller.CreateWebCall(c.Request.Context(), voice.WebCallInput{
			OrderID:      d.ID,
			CustomerName: d.CustomerName,
			ProductNames: d.ProductNames(),
			OrderDate:    d.CreatedAt.Format(orderDateLayout),
		})
		if err != nil {
			log.Error("create web call", zap.String("rid", httpx.RID(c)), zap.Int64("order_id", id), zap.Error(err))
			status := http.StatusBadGateway
			if errors.Is(err, voice.ErrNotConfigured) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, call)
	}
}

// listReviewsHandler godoc
// @Summary      All reviews
// @Description  Every review with customer and product, newest first
// @Tags         reviews
// @Produce      json
// @Success      200  {object}  map[string][]review.WithDetails
// @Router       /api/reviews [get]
func listReviewsHandler(reviews *review.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := reviews.Feed(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": list})
	}
}

// webhookHandler godoc
// @Summary      Voice webhook
// @Description  Receives call_ended and call_analyzed events
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        body  body      voice.Event  true  "Event"
// @Success      200   {object}  map[string]bool
// @Failure      500   {object}  map[string]string
// @Router       /api/webhooks/retell [post]
func webhookHandler(ingest *review.Ingestor, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ev voice.Event
		if err := c.ShouldBindJSON(&ev); err != nil {
			log.Error("webhook payload", zap.String("rid", httpx.RID(c)), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err := ingest.Handle(c.Request.Context(), ev); err != nil {
			log.Error("webhook", zap.String("rid", httpx.RID(c)),
				zap.String("event", ev.Event), zap.String("call_id", ev.Call.CallID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
