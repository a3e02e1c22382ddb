package venues

import (
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/dropDatabas3/dartsstats/internal/http/dto"
)

type condition struct {
	description string
	icon        string
	humidity    float64
	wind        float64
}

var conditions = []condition{
	{"Clear sky", "01d", 20, 4},
	{"Few clouds", "02d", 40, 6},
	{"Scattered clouds", "03d", 60, 8},
	{"Overcast", "04d", 75, 5},
	{"Light rain", "10d", 85, 3},
	{"Rain", "09d", 90, 2},
}

// synthesizeWeather genera un pronóstico plausible y determinístico para
// la ciudad y fecha del evento: misma ciudad + misma fecha => mismo
// clima. No hay integración con un weather API real.
func synthesizeWeather(city string, eventDate time.Time) *dto.WeatherInfo {
	rng := rand.New(rand.NewSource(weatherSeed(city, eventDate)))

	colder := strings.Contains(city, "Berlin") || strings.Contains(city, "Aberdeen")
	baseTemp := baseTemperature(rng, eventDate.Month(), colder)

	c := conditions[rng.Intn(len(conditions))]
	return &dto.WeatherInfo{
		Description: c.description,
		Icon:        c.icon,
		Temperature: float64(baseTemp + rng.Intn(7) - 3),
		Humidity:    c.humidity + float64(rng.Intn(21)-10),
		WindSpeed:   c.wind + float64(rng.Intn(5)-2),
		EventDate:   eventDate,
	}
}

func weatherSeed(city string, eventDate time.Time) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(city))
	return int64(h.Sum64()) + int64(eventDate.YearDay())
}

// baseTemperature aproxima la temperatura media según estación, con
// ciudades continentales/norteñas algo más frías fuera del verano.
func baseTemperature(rng *rand.Rand, month time.Month, colder bool) int {
	between := func(lo, hi int) int { return lo + rng.Intn(hi-lo) }
	switch month {
	case time.January, time.February, time.December:
		if colder {
			return between(-2, 5)
		}
		return between(2, 8)
	case time.March, time.April, time.November:
		if colder {
			return between(3, 12)
		}
		return between(8, 15)
	case time.May, time.June, time.September, time.October:
		if colder {
			return between(10, 18)
		}
		return between(12, 20)
	default:
		if colder {
			return between(15, 25)
		}
		return between(18, 25)
	}
}
