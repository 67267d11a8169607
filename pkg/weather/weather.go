package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Coarse activity recommendations.
const (
	RecommendOutdoor = "outdoor"
	RecommendIndoor  = "indoor"
)

// Advice is the weather advisory consumed by the suggestion generator.
type Advice struct {
	TempF          int     `json:"temp"`
	Condition      string  `json:"condition"`
	Description    string  `json:"description"`
	Humidity       int     `json:"humidity"`
	WindMPH        float64 `json:"windSpeed"`
	Recommendation string  `json:"recommendation"`
}

// DefaultAdvice is the mild-outdoor fallback used whenever real data is
// unavailable.
func DefaultAdvice() Advice {
	return Advice{
		TempF:          72,
		Condition:      "clear",
		Description:    "clear sky",
		Humidity:       65,
		WindMPH:        5,
		Recommendation: RecommendOutdoor,
	}
}

// Summary renders the advisory as a workout recommendation sentence.
func (a Advice) Summary() string {
	if a.Recommendation == RecommendIndoor {
		switch {
		case a.Condition == "rain" || a.Condition == "snow":
			return fmt.Sprintf("It's %s outside (%d°F). Perfect for indoor workouts like yoga, strength training, or spin class!", a.Condition, a.TempF)
		case a.TempF < 32:
			return fmt.Sprintf("It's cold outside (%d°F). Let's do an indoor workout today - maybe a HIIT class or strength training?", a.TempF)
		case a.TempF > 95:
			return fmt.Sprintf("It's hot outside (%d°F). Stay cool with an indoor workout - try yoga, pilates, or a gym session!", a.TempF)
		default:
			return fmt.Sprintf("Conditions aren't great outside (%d°F, %s). Let's keep today's workout indoors!", a.TempF, a.Description)
		}
	}
	return fmt.Sprintf("Great weather today! (%d°F, %s) Perfect for outdoor activities like running, cycling, or outdoor yoga!", a.TempF, a.Description)
}

// Config holds OpenWeatherMap client configuration.
type Config struct {
	APIKey  string
	BaseURL string        // Default: https://api.openweathermap.org/data/2.5
	City    string        // Default: Durham,NC
	Timeout time.Duration // Default: 5s
}

// Service fetches current conditions from OpenWeatherMap. Without an API key
// it serves the default advisory, which is a supported mode, not an error.
type Service struct {
	apiKey     string
	baseURL    string
	city       string
	httpClient *http.Client
}

// NewService creates a weather service.
func NewService(cfg Config) *Service {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openweathermap.org/data/2.5"
	}
	if cfg.City == "" {
		cfg.City = "Durham,NC"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Service{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		city:    cfg.City,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type owmResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Current returns the advisory for the configured city. Any failure degrades
// to the default advisory; this method never errors.
func (s *Service) Current(ctx context.Context) Advice {
	if s.apiKey == "" {
		return DefaultAdvice()
	}

	endpoint := fmt.Sprintf("%s/weather?%s", s.baseURL, url.Values{
		"q":     {s.city},
		"appid": {s.apiKey},
		"units": {"imperial"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Printf("Weather request build failed: %v", err)
		return DefaultAdvice()
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("Weather API error: %v", err)
		return DefaultAdvice()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Weather API returned status %d", resp.StatusCode)
		return DefaultAdvice()
	}

	var data owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		log.Printf("Weather API decode error: %v", err)
		return DefaultAdvice()
	}
	if len(data.Weather) == 0 {
		return DefaultAdvice()
	}

	return buildAdvice(data)
}

func buildAdvice(data owmResponse) Advice {
	condition := strings.ToLower(data.Weather[0].Main)
	advice := Advice{
		TempF:          int(data.Main.Temp + 0.5),
		Condition:      condition,
		Description:    data.Weather[0].Description,
		Humidity:       data.Main.Humidity,
		WindMPH:        data.Wind.Speed,
		Recommendation: RecommendOutdoor,
	}

	switch {
	case condition == "rain" || condition == "snow" || condition == "thunderstorm" || condition == "drizzle":
		advice.Recommendation = RecommendIndoor
	case advice.TempF < 32 || advice.TempF > 95:
		advice.Recommendation = RecommendIndoor
	case advice.WindMPH > 20:
		advice.Recommendation = RecommendIndoor
	}
	return advice
}
