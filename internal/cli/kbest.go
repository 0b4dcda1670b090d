package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/corefkit/coref"
	"github.com/corefkit/coref/clusterer"
	"github.com/corefkit/coref/decoder"
	"github.com/corefkit/coref/internal/corpusio"
)

func (c *CLI) newKBestCommand() *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "kbest <modelfile> <instances>",
		Short: "List the k best antecedent trees per document",
		Long: `List the k highest-scoring distinct antecedent trees for each document
in the instance file, in descending score order. Only the document-wide
tree decoder supports this; it is an analysis tool, not a training mode.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath, instancesPath := args[0], args[1]

			model, err := corpusio.LoadModel(modelPath)
			if err != nil {
				return err
			}
			resolver, err := coref.NewResolver(model, decoder.AntecedentTree{}, clusterer.TransitiveClosure)
			if err != nil {
				return err
			}

			corpus, err := corpusio.ReadInstances(instancesPath, model.Size)
			if err != nil {
				return err
			}

			for i, sub := range corpus.Substructures {
				preds, err := resolver.KBest(sub, corpus.Info, k)
				if err != nil {
					return err
				}
				slog.Debug("Decoded k-best list", "substructure", i, "trees", len(preds))

				for rank, pred := range preds {
					total := 0.0
					for _, s := range pred.Scores {
						total += s
					}
					fmt.Printf("substructure %d rank %d score %.4f\n", i, rank+1, total)
					for _, arc := range pred.Arcs {
						fmt.Printf("  %v\n", arc)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&k, "k", "k", 5, "Number of trees to list per document")
	return cmd
}
