package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/corefkit/coref"
	"github.com/corefkit/coref/internal/corpusio"
)

func (c *CLI) newPredictCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "predict <modelfile> <instances> <output>",
		Short: "Predict coreference chains with a trained model",
		Args:  cobra.ExactArgs(3),
		Example: `  coref predict model.json instances.json chains.json
  coref predict model.json instances.json chains.json -c experiment.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath, instancesPath, outputPath := args[0], args[1], args[2]

			exp, err := loadExperiment(configPath)
			if err != nil {
				return err
			}
			dec, err := exp.decoder()
			if err != nil {
				return err
			}
			cluster, err := exp.clusterer()
			if err != nil {
				return err
			}

			model, err := corpusio.LoadModel(modelPath)
			if err != nil {
				return err
			}
			resolver, err := coref.NewResolver(model, dec, cluster)
			if err != nil {
				return err
			}

			corpus, err := corpusio.ReadInstances(instancesPath, model.Size)
			if err != nil {
				return err
			}

			slog.Info("Predicting", "substructures", len(corpus.Substructures), "decoder", exp.Decoder)
			result, err := resolver.Resolve(corpus.Substructures, corpus.Info)
			if err != nil {
				return err
			}

			if err := corpusio.WriteResult(outputPath, corpus.Documents, result); err != nil {
				return err
			}
			slog.Info("Predictions written", "path", outputPath, "mentions", len(result.Entities))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML experiment config")
	return cmd
}
