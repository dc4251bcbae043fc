package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medpredict/pkg/domain/interfaces"
	"github.com/secmon-lab/medpredict/pkg/domain/model"
	"github.com/secmon-lab/medpredict/pkg/domain/types"
	"github.com/secmon-lab/medpredict/pkg/service/predictor"
	"github.com/secmon-lab/medpredict/pkg/usecase"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Dashboard holds the initial dashboard values and the predictor settings
type Dashboard struct {
	Org            string
	Recommendation string
	Probability    int
	Confidence     int
	SnapshotFile   string
	Seed           uint64
}

// Flags returns CLI flags for Dashboard configuration
func (d *Dashboard) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "org",
			Usage:       "Organization name shown on the dashboard",
			Category:    "Dashboard",
			Value:       usecase.DefaultOrg,
			Sources:     cli.EnvVars("MEDPREDICT_ORG"),
			Destination: &d.Org,
		},
		&cli.StringFlag{
			Name:        "recommendation",
			Usage:       "Maintenance recommendation text",
			Category:    "Dashboard",
			Value:       usecase.DefaultRecommendation,
			Sources:     cli.EnvVars("MEDPREDICT_RECOMMENDATION"),
			Destination: &d.Recommendation,
		},
		&cli.IntFlag{
			Name:        "initial-probability",
			Usage:       "Failure probability shown before the first prediction (0-100)",
			Category:    "Dashboard",
			Value:       int(usecase.DefaultFailureProbability),
			Sources:     cli.EnvVars("MEDPREDICT_INITIAL_PROBABILITY"),
			Destination: &d.Probability,
		},
		&cli.IntFlag{
			Name:        "initial-confidence",
			Usage:       "Confidence shown before the first prediction (0-100)",
			Category:    "Dashboard",
			Value:       int(usecase.DefaultConfidence),
			Sources:     cli.EnvVars("MEDPREDICT_INITIAL_CONFIDENCE"),
			Destination: &d.Confidence,
		},
		&cli.StringFlag{
			Name:        "snapshot-file",
			Usage:       "YAML file replacing the input snapshot",
			Category:    "Dashboard",
			Sources:     cli.EnvVars("MEDPREDICT_SNAPSHOT_FILE"),
			Destination: &d.SnapshotFile,
		},
		&cli.Uint64Flag{
			Name:        "seed",
			Usage:       "Seed of the mock predictor (0 for a random seed)",
			Category:    "Dashboard",
			Sources:     cli.EnvVars("MEDPREDICT_SEED"),
			Destination: &d.Seed,
		},
	}
}

// Configure builds the predictor and the dashboard options
func (d *Dashboard) Configure() (interfaces.Predictor, []usecase.DashboardOption, error) {
	probability, err := types.NewRiskValue(d.Probability)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "invalid initial probability")
	}
	confidence := types.Confidence(d.Confidence)
	if err := confidence.Validate(); err != nil {
		return nil, nil, goerr.Wrap(err, "invalid initial confidence")
	}

	opts := []usecase.DashboardOption{
		usecase.WithOrg(d.Org),
		usecase.WithRecommendation(d.Recommendation),
		usecase.WithInitialPrediction(probability, confidence),
	}

	if d.SnapshotFile != "" {
		snapshot, err := LoadSnapshotFile(d.SnapshotFile)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, usecase.WithInputSnapshot(snapshot))
	}

	return predictor.NewRandom(d.Seed), opts, nil
}

// LogValue returns structured log value
func (d Dashboard) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("org", d.Org),
		slog.String("recommendation", d.Recommendation),
		slog.Int("initial_probability", d.Probability),
		slog.Int("initial_confidence", d.Confidence),
		slog.String("snapshot_file", d.SnapshotFile),
		slog.Bool("seeded", d.Seed != 0),
	)
}

// LoadSnapshotFile loads the input snapshot from a YAML file
func LoadSnapshotFile(path string) (model.InputSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "snapshot file not found", goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read snapshot file", goerr.V("path", path))
	}

	var file model.SnapshotFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse snapshot file", goerr.V("path", path))
	}
	if len(file.Parameters) == 0 {
		return nil, goerr.New("snapshot file has no parameters", goerr.V("path", path))
	}
	if err := file.Parameters.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid snapshot file", goerr.V("path", path))
	}

	return file.Parameters, nil
}
