package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/cafe-api/cart"
	"github.com/junaidrashid-git/cafe-api/database/databasetest"
	"github.com/junaidrashid-git/cafe-api/events"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testKey = "test-key"

type app struct {
	engine *gin.Engine
	deps   Deps
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := databasetest.New(t)
	logger := zap.NewNop()
	products := repository.NewGormRepository[models.Product](store.DB)
	hub := events.NewHub(logger)
	t.Cleanup(hub.Close)

	deps := Deps{
		Store:    store,
		Products: products,
		Cart:     cart.NewService(store.DB, products, hub, logger),
		Hub:      hub,
		Logger:   logger,
		APIKey:   testKey,
	}
	r := gin.New()
	SetupRoutes(r, deps)
	return &app{engine: r, deps: deps}
}

func (a *app) do(t *testing.T, method, path string, body any, withKey bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if withKey {
		req.Header.Set("X-API-KEY", testKey)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *app) seedProduct(t *testing.T, name string, price int64) models.Product {
	t.Helper()
	p := models.Product{Name: name, UnitPrice: decimal.NewFromInt(price)}
	require.NoError(t, a.deps.Store.DB.Create(&p).Error)
	return p
}

type cartView struct {
	OrderID    uint                 `json:"order_id"`
	Items      []models.OrderDetail `json:"items"`
	TotalPrice decimal.Decimal      `json:"total_price"`
}

type mutation struct {
	Message    string          `json:"message"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Error      string          `json:"error"`
}

func TestCartFlowOverHTTP(t *testing.T) {
	a := newApp(t)
	coffee := a.seedProduct(t, "Americano", 50)

	w := a.do(t, http.MethodPost, "/cart/add", gin.H{"customerId": 1, "productId": coffee.ID, "quantity": 2}, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[mutation](t, w).TotalPrice.Equal(decimal.NewFromInt(100)))

	w = a.do(t, http.MethodPost, "/cart/add", gin.H{"customerId": 1, "productId": coffee.ID, "quantity": 3}, false)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodPost, "/cart/update", gin.H{"customerId": 1, "productId": coffee.ID, "change": -2}, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Cart item updated", decode[mutation](t, w).Message)

	w = a.do(t, http.MethodGet, "/cart/1", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[cartView](t, w)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	require.NotNil(t, view.Items[0].Product)
	assert.Equal(t, "Americano", view.Items[0].Product.Name)
	assert.True(t, view.TotalPrice.Equal(decimal.NewFromInt(150)))

	w = a.do(t, http.MethodPost, "/cart/remove", gin.H{"customerId": 1, "productId": coffee.ID}, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[mutation](t, w).TotalPrice.IsZero())

	w = a.do(t, http.MethodPost, "/cart/reset", gin.H{"customerId": 1}, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Cart reset", decode[mutation](t, w).Message)
}

func TestCartErrorsOverHTTP(t *testing.T) {
	a := newApp(t)
	cookie := a.seedProduct(t, "Cookie", 12)

	tests := []struct {
		name   string
		method string
		path   string
		body    any
		want    int
		wantErr string
	}{
		{"malformed body", http.MethodPost, "/cart/add", "nope", http.StatusBadRequest, "Invalid input"},
		{"missing customer", http.MethodPost, "/cart/add", gin.H{"productId": cookie.ID, "quantity": 1}, http.StatusBadRequest, "customerId is required"},
		{"zero quantity", http.MethodPost, "/cart/add", gin.H{"customerId": 2, "productId": cookie.ID}, http.StatusBadRequest, "quantity must be at least 1"},
		{"quantity over limit", http.MethodPost, "/cart/add", gin.H{"customerId": 2, "productId": cookie.ID, "quantity": cart.MaxLineQuantity + 1}, http.StatusBadRequest, cart.ErrQuantityLimit.Msg},
		{"unknown product", http.MethodPost, "/cart/add", gin.H{"customerId": 2, "productId": 404, "quantity": 1}, http.StatusNotFound, "Product not found"},
		{"update without cart", http.MethodPost, "/cart/update", gin.H{"customerId": 2, "productId": cookie.ID, "change": 1}, http.StatusNotFound, "Cart not found"},
		{"remove without cart", http.MethodPost, "/cart/remove", gin.H{"customerId": 2, "productId": cookie.ID}, http.StatusNotFound, "Cart not found"},
		{"reset without cart", http.MethodPost, "/cart/reset", gin.H{"customerId": 2}, http.StatusNotFound, "Cart not found"},
		{"non numeric customer", http.MethodGet, "/cart/abc", nil, http.StatusBadRequest, "Invalid customerId"},
		{"checkout for nobody", http.MethodGet, "/checkout/0", nil, http.StatusBadRequest, "customerId is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(t, tt.method, tt.path, tt.body, false)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Equal(t, tt.wantErr, decode[mutation](t, w).Error)
		})
	}
}

func TestViewAndCheckout(t *testing.T) {
	a := newApp(t)

	w := a.do(t, http.MethodGet, "/cart/5", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[cartView](t, w)
	assert.Zero(t, view.OrderID)
	assert.Empty(t, view.Items)

	w = a.do(t, http.MethodGet, "/checkout/5", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	opened := decode[cartView](t, w)
	assert.NotZero(t, opened.OrderID)
	assert.True(t, opened.TotalPrice.IsZero())

	w = a.do(t, http.MethodGet, "/cart/5", nil, false)
	assert.Equal(t, opened.OrderID, decode[cartView](t, w).OrderID)
}

func TestMenuAndHealth(t *testing.T) {
	a := newApp(t)
	a.seedProduct(t, "Latte", 55)
	a.seedProduct(t, "Mocha", 60)

	w := a.do(t, http.MethodGet, "/", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Product](t, w), 2)

	w = a.do(t, http.MethodGet, "/health", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[map[string]any](t, w)
	assert.Equal(t, "ok", got["status"])
	assert.Equal(t, "sqlite", got["database"])
	assert.EqualValues(t, 0, got["subscribers"])
}

func TestCRUDRequiresAPIKey(t *testing.T) {
	a := newApp(t)

	w := a.do(t, http.MethodGet, "/customers", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodGet, "/menu/export", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCustomerCRUDOverHTTP(t *testing.T) {
	a := newApp(t)

	w := a.do(t, http.MethodPost, "/customers", gin.H{"name": "Ploy", "address": "Bangkok", "phone": "020000000"}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Customer](t, w)
	require.NotZero(t, created.ID)

	path := "/customers/" + itoa(created.ID)

	w = a.do(t, http.MethodPut, path, gin.H{"id": 999, "phone": "021111111"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.Customer](t, w)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Ploy", updated.Name)
	assert.Equal(t, "021111111", updated.Phone)

	w = a.do(t, http.MethodGet, "/customers", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Customer](t, w), 1)

	w = a.do(t, http.MethodDelete, path, nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[models.Customer](t, w).ID)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w = a.do(t, method, path, gin.H{}, true)
		assert.Equal(t, http.StatusNotFound, w.Code, method)
		assert.Equal(t, "Customer not found", decode[mutation](t, w).Error, method)
	}

	w = a.do(t, http.MethodGet, "/customers/x", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPayingAnOrderClosesTheCart(t *testing.T) {
	a := newApp(t)
	tea := a.seedProduct(t, "Thai tea", 40)

	w := a.do(t, http.MethodPost, "/cart/add", gin.H{"customerId": 3, "productId": tea.ID, "quantity": 1}, false)
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[cartView](t, a.do(t, http.MethodGet, "/cart/3", nil, false)).OrderID

	w = a.do(t, http.MethodPut, "/orders/"+itoa(first), gin.H{"status": models.OrderStatusPaid}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	paid := decode[models.Order](t, w)
	assert.Equal(t, models.OrderStatusPaid, paid.Status)
	assert.Len(t, paid.Details, 1)

	w = a.do(t, http.MethodGet, "/cart/3", nil, false)
	assert.Zero(t, decode[cartView](t, w).OrderID)

	w = a.do(t, http.MethodPost, "/cart/add", gin.H{"customerId": 3, "productId": tea.ID, "quantity": 2}, false)
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[cartView](t, a.do(t, http.MethodGet, "/cart/3", nil, false))
	assert.NotEqual(t, first, second.OrderID)
	assert.True(t, second.TotalPrice.Equal(decimal.NewFromInt(80)))
}

func TestOrderStatusIsRestricted(t *testing.T) {
	a := newApp(t)
	tea := a.seedProduct(t, "Thai tea", 40)

	w := a.do(t, http.MethodPost, "/cart/add", gin.H{"customerId": 6, "productId": tea.ID, "quantity": 1}, false)
	require.Equal(t, http.StatusOK, w.Code)
	id := decode[cartView](t, a.do(t, http.MethodGet, "/cart/6", nil, false)).OrderID
	path := "/orders/" + itoa(id)

	for _, status := range []string{"closed", "paid", ""} {
		w = a.do(t, http.MethodPut, path, gin.H{"status": status}, true)
		assert.Equal(t, http.StatusBadRequest, w.Code, status)
		assert.Contains(t, decode[mutation](t, w).Error, "status must be OPEN or PAID", status)
	}

	w = a.do(t, http.MethodGet, path, nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderStatusOpen, decode[models.Order](t, w).Status)
	assert.Equal(t, id, decode[cartView](t, a.do(t, http.MethodGet, "/cart/6", nil, false)).OrderID)

	w = a.do(t, http.MethodPost, "/orders", gin.H{"customer_id": 6, "status": "closed"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPost, "/orders", gin.H{"customer_id": 7}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, models.OrderStatusOpen, decode[models.Order](t, w).Status)
}

func TestEntityCRUDOverHTTP(t *testing.T) {
	a := newApp(t)
	db := a.deps.Store.DB

	latte := a.seedProduct(t, "Latte", 55)
	customer := models.Customer{Name: "Ploy"}
	require.NoError(t, db.Create(&customer).Error)
	order := models.Order{CustomerID: customer.ID}
	require.NoError(t, db.Create(&order).Error)
	rider := models.Employee{Name: "Somchai", Position: "rider"}
	require.NoError(t, db.Create(&rider).Error)
	morning := models.Promotion{Name: "Morning", Discount: decimal.NewFromInt(5)}
	require.NoError(t, db.Create(&morning).Error)

	type check func(t *testing.T, w *httptest.ResponseRecorder)

	tests := []struct {
		path     string
		create   gin.H
		update   gin.H
		created  check
		updated  check
		notFound string
	}{
		{
			path:   "promotions",
			create: gin.H{"name": "Happy hour", "discount": "10", "products": []models.Product{latte}},
			update: gin.H{"discount": "15"},
			created: func(t *testing.T, w *httptest.ResponseRecorder) {
				p := decode[models.Promotion](t, w)
				require.Len(t, p.Products, 1)
				assert.Equal(t, latte.ID, p.Products[0].ID)
			},
			updated: func(t *testing.T, w *httptest.ResponseRecorder) {
				p := decode[models.Promotion](t, w)
				assert.Equal(t, "Happy hour", p.Name)
				assert.True(t, p.Discount.Equal(decimal.NewFromInt(15)), p.Discount.String())
				require.Len(t, p.Products, 1, "associations survive an update")
				assert.Equal(t, "Latte", p.Products[0].Name)
			},
			notFound: "Promotion not found",
		},
		{
			path:   "payments",
			create: gin.H{"type": "cash", "amount": "55", "order_id": order.ID, "promotion_id": nil},
			update: gin.H{"promotion_id": morning.ID, "status": "settled"},
			created: func(t *testing.T, w *httptest.ResponseRecorder) {
				p := decode[models.Payment](t, w)
				assert.Nil(t, p.PromotionID)
				assert.Equal(t, order.ID, p.OrderID)
			},
			updated: func(t *testing.T, w *httptest.ResponseRecorder) {
				p := decode[models.Payment](t, w)
				require.NotNil(t, p.PromotionID)
				assert.Equal(t, morning.ID, *p.PromotionID)
				assert.Equal(t, "cash", p.Type)
				assert.Equal(t, "settled", p.Status)
				assert.True(t, p.Amount.Equal(decimal.NewFromInt(55)))
			},
			notFound: "Payment not found",
		},
		{
			path:   "deliveries",
			create: gin.H{"status": "pending", "order_id": order.ID, "employee_id": rider.ID},
			update: gin.H{"status": "delivered"},
			created: func(t *testing.T, w *httptest.ResponseRecorder) {
				d := decode[models.Delivery](t, w)
				assert.Equal(t, "pending", d.Status)
				assert.Equal(t, rider.ID, d.EmployeeID)
			},
			updated: func(t *testing.T, w *httptest.ResponseRecorder) {
				d := decode[models.Delivery](t, w)
				assert.Equal(t, "delivered", d.Status)
				assert.Equal(t, order.ID, d.OrderID)
				assert.Equal(t, rider.ID, d.EmployeeID)
			},
			notFound: "Delivery not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := a.do(t, http.MethodPost, "/"+tt.path, tt.create, true)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			tt.created(t, w)
			id := decode[struct {
				ID uint `json:"id"`
			}](t, w).ID
			require.NotZero(t, id)
			path := "/" + tt.path + "/" + itoa(id)

			w = a.do(t, http.MethodGet, path, nil, true)
			require.Equal(t, http.StatusOK, w.Code)
			tt.created(t, w)

			w = a.do(t, http.MethodPut, path, tt.update, true)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			tt.updated(t, w)

			w = a.do(t, http.MethodGet, "/"+tt.path, nil, true)
			require.Equal(t, http.StatusOK, w.Code)
			assert.NotEmpty(t, decode[[]map[string]any](t, w))

			w = a.do(t, http.MethodDelete, path, nil, true)
			require.Equal(t, http.StatusOK, w.Code)

			w = a.do(t, http.MethodGet, path, nil, true)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, tt.notFound, decode[mutation](t, w).Error)
		})
	}
}

func TestMenuSpreadsheetRoundTrip(t *testing.T) {
	a := newApp(t)
	a.seedProduct(t, "Espresso", 45)

	req := httptest.NewRequest(http.MethodGet, "/menu/export", nil)
	req.Header.Set("X-API-KEY", testKey)
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "menu.xlsx")
	exported := w.Body.Bytes()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "menu.xlsx")
	require.NoError(t, err)
	_, err = part.Write(exported)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req = httptest.NewRequest(http.MethodPost, "/menu/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-API-KEY", testKey)
	w = httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decode[map[string]any](t, w)
	assert.EqualValues(t, 1, res["updated_count"])
	assert.EqualValues(t, 0, res["created_count"])

	req = httptest.NewRequest(http.MethodPost, "/menu/import", strings.NewReader(""))
	req.Header.Set("X-API-KEY", testKey)
	w = httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartEventsReachWebsocket(t *testing.T) {
	a := newApp(t)
	latte := a.seedProduct(t, "Latte", 55)

	srv := httptest.NewServer(a.engine)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/carts", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		a.engine.ServeHTTP(w, req)
		var health struct {
			Subscribers int `json:"subscribers"`
		}
		return json.Unmarshal(w.Body.Bytes(), &health) == nil && health.Subscribers == 1
	}, time.Second, 10*time.Millisecond)

	w := a.do(t, http.MethodPost, "/cart/add", gin.H{"customerId": 4, "productId": latte.ID, "quantity": 1}, false)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev events.CartEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, events.ItemAdded, ev.Type)
	assert.EqualValues(t, 4, ev.CustomerID)
	assert.True(t, ev.TotalPrice.Equal(decimal.NewFromInt(55)))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
