package cart

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/cafe-reviews/internal/product"
)

func prod(id int64, price string) product.Product {
	return product.Product{ID: id, Name: "P", Price: decimal.RequireFromString(price)}
}

func TestCart_AddIsIdempotent(t *testing.T) {
	c := &Cart{}
	c.Add(prod(1, "10.00"))
	c.Add(prod(1, "10.00"))
	c.Add(prod(2, "5.00"))

	require.Len(t, c.Lines, 2)
	assert.Equal(t, 1, c.Lines[0].Quantity)
	assert.Equal(t, 2, c.ItemCount())
}

func TestCart_UpdateQuantityAndTotals(t *testing.T) {
	c := &Cart{}
	c.Add(prod(1, "10.00"))
	c.Add(prod(2, "5.00"))
	c.UpdateQuantity(1, 2)

	assert.Equal(t, 3, c.ItemCount())
	assert.True(t, c.Total().Equal(decimal.RequireFromString("25.00")), c.Total().String())

	// cantidad <= 0 elimina la línea
	c.UpdateQuantity(2, 0)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, int64(1), c.Lines[0].ProductID)

	// producto ausente: no-op
	c.UpdateQuantity(99, 4)
	assert.Len(t, c.Lines, 1)
}

func TestCart_RemoveAndClear(t *testing.T) {
	c := &Cart{}
	c.Add(prod(1, "1.00"))
	c.Add(prod(2, "1.00"))
	c.Remove(1)
	assert.Len(t, c.Lines, 1)
	c.Remove(42)
	assert.Len(t, c.Lines, 1)
	c.Clear()
	assert.True(t, c.Empty())
	assert.True(t, c.Total().IsZero())
}

func TestCart_RepriceUsesCurrentCatalog(t *testing.T) {
	c := &Cart{}
	c.Add(prod(1, "10.00"))
	c.Add(prod(2, "5.00"))
	c.UpdateQuantity(1, 3)

	catalog := map[int64]product.Product{1: prod(1, "12.00")}
	changed := c.Reprice(func(id int64) (*product.Product, bool) {
		p, ok := catalog[id]
		return &p, ok
	})

	assert.True(t, changed)
	require.Len(t, c.Lines, 1)
	assert.True(t, c.Total().Equal(decimal.RequireFromString("36.00")), c.Total().String())
}

func TestSession_RoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("cafesess", cookie.NewStore([]byte("test-secret"))))
	r.POST("/add", func(c *gin.Context) {
		s := sessions.Default(c)
		ct := Load(s)
		ct.Add(prod(7, "3.50"))
		if err := Save(s, ct); err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/count", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"count": Load(sessions.Default(c)).ItemCount()})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/add", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/count", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())

	// otra sesión (sin cookie) no ve el carrito
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/count", nil))
	assert.JSONEq(t, `{"count":0}`, w.Body.String())
}
