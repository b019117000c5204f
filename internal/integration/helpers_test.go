package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/zoshlabs/checkout-service/internal/domain"
	"github.com/zoshlabs/checkout-service/internal/repository"
)

const (
	TestUserFirstName = "John"
	TestUserLastName  = "Doe"
	TestUserEmail     = "test@example.com"
	TestUserPassword  = "Test123!@#"
	TestUserMobile    = "9876543210"
)

func prepareRequest(method, path string, body io.Reader, headers map[string]string, cookies []http.Cookie) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	for _, c := range cookies {
		req.AddCookie(&c)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	var expected any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		return k == "timestamp" || k == "requestId" || k == "createdAt"
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func truncateAll(t testing.TB, db *pgxpool.Pool) {
	for _, table := range []string{"order_items", "orders", "payment_orders", "users"} {
		_, err := db.Exec(context.Background(), "TRUNCATE "+table+" RESTART IDENTITY CASCADE")
		require.NoError(t, err)
	}
}

func truncateOrders(t testing.TB, db *pgxpool.Pool) {
	for _, table := range []string{"order_items", "orders", "payment_orders"} {
		_, err := db.Exec(context.Background(), "TRUNCATE "+table+" RESTART IDENTITY CASCADE")
		require.NoError(t, err)
	}
}

func insertTestUser(t testing.TB, db *pgxpool.Pool) {
	var user domain.User
	require.NoError(t, user.Password.Set(TestUserPassword))

	_, err := db.Exec(context.Background(), `
		INSERT INTO users (first_name, last_name, email, password_hash, mobile)
		VALUES ($1, $2, $3, $4, $5)
	`, TestUserFirstName, TestUserLastName, TestUserEmail, user.Password.Hash, TestUserMobile)
	require.NoError(t, err)
}

// authenticatedUserCookies seeds the test user and logs it in through the
// real login endpoint, returning the session cookie to replay in scenarios.
func (app *TestApp) authenticatedUserCookies(t testing.TB) []http.Cookie {
	truncateAll(t, app.DB)
	insertTestUser(t, app.DB)

	body := strings.NewReader(`{"email": "` + TestUserEmail + `", "password": "` + TestUserPassword + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	app.App.Routes().ServeHTTP(rec, req)

	res := rec.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode, "login failed while preparing test session")

	cookies := make([]http.Cookie, 0, len(res.Cookies()))
	for _, c := range res.Cookies() {
		cookies = append(cookies, *c)
	}
	require.NotEmpty(t, cookies, "expected a session cookie from login")

	return cookies
}

func createTestCart(t testing.TB, app *TestApp, userID int64, couponPrice decimal.Decimal) {
	cart := domain.NewCart(userID, []domain.CartItem{
		{
			ProductID:    10,
			ProductName:  "Sneakers",
			SellerID:     3,
			Quantity:     1,
			MrpPrice:     decimal.RequireFromString("599.99"),
			SellingPrice: decimal.RequireFromString("499.99"),
		},
		{
			ProductID:    11,
			ProductName:  "Socks",
			SellerID:     4,
			Quantity:     2,
			MrpPrice:     decimal.RequireFromString("60.00"),
			SellingPrice: decimal.RequireFromString("50.00"),
		},
	})
	cart.CouponPrice = couponPrice

	cartRepo := repository.NewRedisCartRepository(app.RedisClient)
	require.NoError(t, cartRepo.Set(context.Background(), cart))
}

func clearTestCart(t testing.TB, app *TestApp, userID int64) {
	cartRepo := repository.NewRedisCartRepository(app.RedisClient)
	require.NoError(t, cartRepo.Delete(context.Background(), userID))
}
