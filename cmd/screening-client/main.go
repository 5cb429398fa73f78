package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/llamayondu/Non-Invasive-Anemia-Detection/internal/api"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/internal/auth"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/internal/capture"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/internal/extraction"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/internal/patient"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/internal/screening"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/internal/session"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/config"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/logger"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/monitoring"
)

const serviceVersion = "1.0.0"

// App bundles the long-lived components of the screening client. Screens
// construct their own screening workflows through NewScreening; everything
// else is shared.
type App struct {
	Config        *config.Config
	Logger        *logger.Logger
	Sessions      *session.Store
	Client        *api.Client
	Capture       capture.Adapter
	Authenticator *auth.Authenticator
	Extractor     *extraction.Extractor
	Patients      *patient.Registry
	PatientList   *patient.Lister

	metrics *monitoring.MetricsCollector
}

// NewScreening starts a fresh screening workflow for one patient
func (a *App) NewScreening(patientID string) *screening.Orchestrator {
	return screening.NewOrchestrator(
		patientID,
		a.Capture,
		a.Client,
		screening.DefaultQualityClassifier(),
		a.Logger,
		a.metrics,
	)
}

// CaptureOptions returns the configured options for screening shots
func (a *App) CaptureOptions() capture.Options {
	return capture.Options{
		Quality:   a.Config.Capture.Quality,
		AspectW:   a.Config.Capture.AspectW,
		AspectH:   a.Config.Capture.AspectH,
		AllowEdit: a.Config.Capture.AllowEdit,
	}
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)

	// Initialize metrics and health
	metrics := monitoring.NewMetricsCollector("screening-client")
	health := monitoring.NewHealthManager("screening-client", serviceVersion)
	health.Register("analysis-service", monitoring.NewRemoteServiceChecker("analysis-service", cfg.API.BaseURL))

	// Initialize session store and remote client
	sessions := session.NewStore(log)
	client := api.NewClient(&cfg.API, sessions, log, metrics)

	// Initialize media capture over the filesystem spool backend
	platform := capture.NewFSPlatform(cfg.Capture.SpoolDir, cfg.Capture.ExportDir)
	adapter := capture.NewDeviceAdapter(platform, log, metrics, cfg.Capture.MaxBytes)

	app := &App{
		Config:        cfg,
		Logger:        log,
		Sessions:      sessions,
		Client:        client,
		Capture:       adapter,
		Authenticator: auth.NewAuthenticator(client, sessions, log, metrics),
		Extractor:     extraction.NewExtractor(adapter, client, log, metrics),
		Patients:      patient.NewRegistry(client, log),
		PatientList:   patient.NewLister(client, cfg.Patients.PageSize, log),
		metrics:       metrics,
	}

	app.Logger.WithFields(map[string]interface{}{
		"api_base_url": cfg.API.BaseURL,
		"spool_dir":    cfg.Capture.SpoolDir,
	}).Info("Screening client ready")

	// Start the local monitoring endpoint when enabled
	var monitor *monitoring.Server
	if cfg.Monitoring.Enabled {
		monitor = monitoring.NewServer(
			cfg.Monitoring.ListenAddr,
			cfg.Monitoring.HealthPath,
			cfg.Monitoring.MetricsPath,
			health,
			metrics,
		)
		go func() {
			log.WithField("addr", cfg.Monitoring.ListenAddr).Info("Starting monitoring endpoint")
			if err := monitor.Start(); err != nil {
				log.WithError(err).Error("Monitoring endpoint failed")
			}
		}()
	}

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down")
	if monitor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := monitor.Stop(ctx); err != nil {
			log.WithError(err).Warn("Monitoring endpoint did not stop cleanly")
		}
	}
}
