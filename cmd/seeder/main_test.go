package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/car-rental-portal/internal/models"
	"github.com/ukydev/car-rental-portal/internal/rental"
)

// fakePortal accepts one login and validates created cars.
func fakePortal(t *testing.T) (*httptest.Server, *[]models.CarInput) {
	t.Helper()
	created := []models.CarInput{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/staff/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req["password"] != "password123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"seed-token"}}`))
	})
	mux.HandleFunc("/api/cars", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer seed-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"Not authorized, no token"}`))
			return
		}
		var in models.CarInput
		err := json.NewDecoder(r.Body).Decode(&in)
		if err == nil {
			_, err = rental.ValidateCarInput(in)
		}
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"success":false,"message":"invalid car"}`))
			return
		}
		created = append(created, in)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"_id":"64b7f0c2a1b2c3d4e5f60718","pricePerDay":25}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &created
}

func TestDemoFleet_CoversEveryType(t *testing.T) {
	serviced := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	fleet := demoFleet(serviced)

	types := map[models.CarType]bool{}
	fuels := map[models.FuelType]bool{}
	for _, car := range fleet {
		_, err := rental.ValidateCarInput(car)
		assert.NoError(t, err, car.Model)
		assert.Equal(t, serviced, car.LastMaintenance)
		types[car.Type] = true
		fuels[car.FuelType] = true
	}
	assert.Len(t, types, len(models.CarTypes))
	assert.Len(t, fuels, len(models.FuelTypes))
}

func TestClient_LoginAndSeed(t *testing.T) {
	srv, created := fakePortal(t)
	client := &Client{BaseURL: srv.URL + "/api", HTTP: srv.Client()}

	require.NoError(t, client.Login("admin", "password123"))
	assert.Equal(t, "seed-token", client.Token)

	fleet := demoFleet(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, len(fleet), Seed(client, fleet))
	assert.Len(t, *created, len(fleet))
}

func TestClient_LoginRejected(t *testing.T) {
	srv, _ := fakePortal(t)
	client := &Client{BaseURL: srv.URL + "/api", HTTP: srv.Client()}

	err := client.Login("admin", "wrong")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")
	assert.Empty(t, client.Token)
}

func TestClient_CreateCarWithoutToken(t *testing.T) {
	srv, created := fakePortal(t)
	client := &Client{BaseURL: srv.URL + "/api", HTTP: srv.Client()}

	_, err := client.CreateCar(demoFleet(time.Now())[0])
	assert.Error(t, err)
	assert.Equal(t, 0, Seed(client, demoFleet(time.Now())))
	assert.Empty(t, *created)
}
