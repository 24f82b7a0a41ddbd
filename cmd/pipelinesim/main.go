// Command pipelinesim serves hardcoded thought snapshots so the console
// loop can run end to end without a real cognitive pipeline behind it.
package main

import (
	"net/http"
	"os"
	"sync/atomic"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type interpretation struct {
	Summary string `json:"summary"`
}

type uncertainty struct {
	Overall float64 `json:"overall"`
}

type risk struct {
	Level string `json:"level"`
}

type perception struct {
	Objects []string `json:"objects"`
}

type snapshot struct {
	Interpretation interpretation `json:"interpretation"`
	Uncertainty    uncertainty    `json:"uncertainty"`
	Risk           risk           `json:"risk"`
	Perception     perception     `json:"perception"`
}

type envelope struct {
	Pipeline snapshot `json:"pipeline"`
}

// Sample snapshots, rotated one per request so the summary changes
// between polls and narration de-duplication gets exercised.
var samples = []envelope{
	{Pipeline: snapshot{
		Interpretation: interpretation{Summary: "A person is sitting at the desk, focused on the laptop"},
		Uncertainty:    uncertainty{Overall: 0.18},
		Risk:           risk{Level: "low"},
		Perception:     perception{Objects: []string{"person", "desk", "laptop"}},
	}},
	{Pipeline: snapshot{
		Interpretation: interpretation{Summary: "The person stood up and is moving toward the doorway"},
		Uncertainty:    uncertainty{Overall: 0.34},
		Risk:           risk{Level: "moderate"},
		Perception:     perception{Objects: []string{"person", "door"}},
	}},
	{Pipeline: snapshot{
		Interpretation: interpretation{Summary: "An unattended kettle is steaming on the stove"},
		Uncertainty:    uncertainty{Overall: 0.41},
		Risk:           risk{Level: "high"},
		Perception:     perception{Objects: []string{"kettle", "stove"}},
	}},
	{Pipeline: snapshot{
		Interpretation: interpretation{Summary: "Smoke is accumulating near the ceiling"},
		Uncertainty:    uncertainty{Overall: 0.72},
		Risk:           risk{Level: "critical"},
		Perception:     perception{Objects: []string{"smoke"}},
	}},
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	e := echo.New()
	e.Use(middleware.Recover())

	var counter uint64
	e.GET("/pipeline/thought", func(c echo.Context) error {
		// Each request advances the rotation; two quick polls may
		// still see the same snapshot, which is exactly what the
		// de-duplication guard is for.
		index := atomic.AddUint64(&counter, 1) / 2 % uint64(len(samples))
		return c.JSON(http.StatusOK, samples[index])
	})

	port := os.Getenv("SIGHTLINE_SIM_PORT")
	if port == "" {
		port = "8090"
	}

	logger.Info("Pipeline simulator started", zap.String("port", port))
	if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
		logger.Fatal("shutting down the simulator", zap.Error(err))
	}
}
