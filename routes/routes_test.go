package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"invoices-dashboard-backend/config"
	"invoices-dashboard-backend/controllers"
	"invoices-dashboard-backend/models"
	"invoices-dashboard-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubDashboard struct{}

func (stubDashboard) FetchRevenue(context.Context) ([]models.Revenue, error) {
	return []models.Revenue{{Month: "Jan", Revenue: 100}}, nil
}

func (stubDashboard) FetchLatestInvoices(context.Context) ([]models.LatestInvoice, error) {
	return nil, nil
}

func (stubDashboard) FetchCardData(context.Context) (*models.CardData, error) {
	return &models.CardData{}, nil
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRouter(Handlers{
		Auth:      controllers.NewAuthController(nil, false, zap.NewNop()),
		Dashboard: controllers.NewDashboardController(stubDashboard{}),
		Invoices:  controllers.NewInvoiceController(nil, nil),
		Customers: controllers.NewCustomerController(nil),
	}, config.HTTPConfig{CORSAllowOrigins: []string{"http://localhost:3000"}}, "test-secret", zap.NewNop())
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAPI_RequiresToken(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/revenue", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_AcceptsBearerAndCookie(t *testing.T) {
	token, _, err := utils.GenerateToken("user-1", "test-secret", time.Hour, time.Now())
	require.NoError(t, err)
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/revenue", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"revenue":[{"month":"Jan","revenue":100}]}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/dashboard/cards", nil)
	req.AddCookie(&http.Cookie{Name: utils.TokenCookie, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
