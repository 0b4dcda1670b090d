package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/corefkit/coref"
	"github.com/corefkit/coref/internal/corpusio"
	"github.com/corefkit/coref/perceptron"
)

func (c *CLI) newTrainCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "train <instances> <modelfile>",
		Short: "Train a model on pre-extracted instances",
		Args:  cobra.ExactArgs(2),
		Example: `  coref train instances.json model.json
  coref train instances.json model.json -c experiment.yaml -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			instancesPath, modelPath := args[0], args[1]

			exp, err := loadExperiment(configPath)
			if err != nil {
				return err
			}
			dec, err := exp.decoder()
			if err != nil {
				return err
			}
			cost, err := exp.costFunc()
			if err != nil {
				return err
			}

			slog.Info("Training", "instances", instancesPath, "decoder", exp.Decoder, "output", modelPath)

			corpus, err := corpusio.ReadInstances(instancesPath, exp.Size)
			if err != nil {
				return err
			}
			perceptron.BakeCosts(corpus.Info, dec.Labels(), cost)

			model, err := coref.Train(dec, corpus.Substructures, corpus.Info, exp.trainConfig())
			if err != nil {
				return err
			}

			if err := corpusio.SaveModel(modelPath, model); err != nil {
				return err
			}
			slog.Info("Model saved", "path", modelPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML experiment config")
	return cmd
}
