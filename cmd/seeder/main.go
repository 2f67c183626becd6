// Command seeder loads a demo fleet into a running portal through its API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental-portal/internal/models"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// demoFleet covers every car type and fuel type at least once.
func demoFleet(serviced time.Time) []models.CarInput {
	cars := []models.CarInput{
		{Brand: "Volkswagen", Model: "Polo", Type: models.CarTypeCity, FuelType: models.FuelPetrol, Transmission: models.TransmissionManual, Seats: 5, LuggageCapacity: 351, Mileage: 18500, Features: []string{"Bluetooth", "Air conditioning"}},
		{Brand: "Fiat", Model: "500e", Type: models.CarTypeCity, FuelType: models.FuelFullElectric, Transmission: models.TransmissionAutomatic, Seats: 4, LuggageCapacity: 185, Mileage: 6200, Features: []string{"Rapid charging", "Parking sensors"}},
		{Brand: "Skoda", Model: "Octavia Estate", Type: models.CarTypeFamily, FuelType: models.FuelDiesel, Transmission: models.TransmissionManual, Seats: 5, LuggageCapacity: 640, Mileage: 41000, Features: []string{"Roof rails", "Cruise control"}},
		{Brand: "Toyota", Model: "Corolla Touring Sports", Type: models.CarTypeFamily, FuelType: models.FuelHybrid, Transmission: models.TransmissionAutomatic, Seats: 5, LuggageCapacity: 598, Mileage: 22300, Features: []string{"Lane assist", "Reversing camera"}},
		{Brand: "BMW", Model: "M240i", Type: models.CarTypeSports, FuelType: models.FuelPetrol, Transmission: models.TransmissionAutomatic, Seats: 4, LuggageCapacity: 390, Mileage: 9800, Features: []string{"Sport seats", "Launch control"}},
		{Brand: "Porsche", Model: "Taycan", Type: models.CarTypeSports, FuelType: models.FuelFullElectric, Transmission: models.TransmissionAutomatic, Seats: 4, LuggageCapacity: 407, Mileage: 5100, Features: []string{"Air suspension", "Heated seats"}},
		{Brand: "Land Rover", Model: "Discovery Sport", Type: models.CarTypeSUV, FuelType: models.FuelDiesel, Transmission: models.TransmissionAutomatic, Seats: 7, LuggageCapacity: 963, Mileage: 35200, Features: []string{"Four wheel drive", "Tow bar"}},
		{Brand: "Kia", Model: "Sorento", Type: models.CarTypeSUV, FuelType: models.FuelHybrid, Transmission: models.TransmissionAutomatic, Seats: 7, LuggageCapacity: 821, Mileage: 15700, Features: []string{"Panoramic roof", "Apple CarPlay"}},
	}
	for i := range cars {
		cars[i].LastMaintenance = serviced
	}
	return cars
}

// Client talks to the portal API.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func (c *Client) post(path string, body interface{}) (*apiResponse, int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, bytes.NewBuffer(data))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, resp.StatusCode, nil
}

// Login exchanges staff credentials for a token and keeps it on the client.
func (c *Client) Login(username, password string) error {
	resp, status, err := c.post("/staff/login", map[string]string{"username": username, "password": password})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("login failed with status %d: %s", status, resp.Message)
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil || payload.Token == "" {
		return fmt.Errorf("no token in login response")
	}
	c.Token = payload.Token
	return nil
}

// CreateCar adds a car and returns its id.
func (c *Client) CreateCar(car models.CarInput) (string, error) {
	resp, status, err := c.post("/cars", car)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", fmt.Errorf("car creation failed with status %d: %s", status, resp.Message)
	}
	var created struct {
		ID          string  `json:"_id"`
		PricePerDay float64 `json:"pricePerDay"`
	}
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		return "", fmt.Errorf("invalid car in response: %w", err)
	}
	log.WithFields(log.Fields{
		"carId":       created.ID,
		"car":         car.Brand + " " + car.Model,
		"pricePerDay": created.PricePerDay,
	}).Info("Car created")
	return created.ID, nil
}

// Seed creates every car, returning how many succeeded.
func Seed(c *Client, cars []models.CarInput) int {
	created := 0
	for _, car := range cars {
		if _, err := c.CreateCar(car); err != nil {
			log.WithError(err).WithField("car", car.Brand+" "+car.Model).Error("Failed to create car")
			continue
		}
		created++
	}
	return created
}

func main() {
	apiURL := strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}
	client := &Client{BaseURL: apiURL, Token: os.Getenv("SEED_AUTH_TOKEN"), HTTP: &http.Client{Timeout: 10 * time.Second}}

	if client.Token == "" {
		username, password := os.Getenv("SEED_USERNAME"), os.Getenv("SEED_PASSWORD")
		if username == "" || password == "" {
			log.Fatal("Set SEED_AUTH_TOKEN or SEED_USERNAME and SEED_PASSWORD")
		}
		if err := client.Login(username, password); err != nil {
			log.WithError(err).Fatal("Login failed")
		}
	}

	cars := demoFleet(time.Now().UTC().AddDate(0, -2, 0).Truncate(24 * time.Hour))
	log.WithFields(log.Fields{"api_url": apiURL, "fleet_size": len(cars)}).Info("Seeding demo fleet")

	created := Seed(client, cars)
	log.WithField("created_cars", created).Info("Seeding completed")
	if created == 0 {
		os.Exit(1)
	}
}
