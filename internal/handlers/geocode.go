package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"farmtoclick/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/go-retryablehttp"
)

const nominatimURL = "https://nominatim.openstreetmap.org/reverse"

// GeocodeHandler proxies reverse-geocoding lookups so clients never talk to
// nominatim directly (and its usage policy is honored from one place).
type GeocodeHandler struct {
	http *retryablehttp.Client
}

func NewGeocodeHandler() *GeocodeHandler {
	c := retryablehttp.NewClient()
	c.RetryMax = 1
	c.Logger = nil
	c.HTTPClient.Timeout = 10 * time.Second
	return &GeocodeHandler{http: c}
}

func (h *GeocodeHandler) ReverseGeocode(c *fiber.Ctx) error {
	var input struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Lat == 0 && input.Lon == 0 {
		return response.BadRequest(c, "Missing coordinates")
	}

	url := fmt.Sprintf("%s?format=json&lat=%f&lon=%f&zoom=18&addressdetails=1", nominatimURL, input.Lat, input.Lon)
	req, err := retryablehttp.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return response.ServerError(c, "Geocoding failed")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "FarmtoClick/1.0")

	resp, err := h.http.Do(req)
	if err != nil {
		log.Printf("Geocoding error: %v", err)
		return response.ServerError(c, "Geocoding failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return response.Error(c, resp.StatusCode, "Geocoding failed")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return response.ServerError(c, "Geocoding failed")
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return response.ServerError(c, "Geocoding failed")
	}
	return c.JSON(payload)
}
