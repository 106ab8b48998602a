package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/service"
	"github.com/diecastgarage/storefront/pkg/logger"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	File string
}

// seedFile is the on-disk catalog format.
type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	Name          string   `yaml:"name"`
	Brand         string   `yaml:"brand"`
	Series        string   `yaml:"series"`
	Year          int      `yaml:"year"`
	Price         float64  `yaml:"price"`
	OriginalPrice *float64 `yaml:"originalPrice"`
	Image         string   `yaml:"image"`
	Description   string   `yaml:"description"`
	Condition     string   `yaml:"condition"`
	Category      string   `yaml:"category"`
	Color         string   `yaml:"color"`
	InStock       *bool    `yaml:"inStock"`
	Stock         int      `yaml:"stock"`
	Featured      bool     `yaml:"featured"`
	Rarity        string   `yaml:"rarity"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a starter catalog",
		Long: `Insert the products of a YAML catalog file. Nothing is written when the
products collection already holds documents.

Example:
  storefront seed --file ./catalog.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "path to catalog YAML (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *SeedOptions) error {
	products, err := loadSeedFile(opts.File)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read catalog", err)
	}

	ctx := cmdContext(cmd)
	b, err := openBackends(ctx, opts.config())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open backends", err)
	}
	defer b.Close()

	catalog := service.NewCatalogService(b.store, logger.Component("catalog"))
	n, err := catalog.SeedIfEmpty(ctx, products)
	if err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("seed stopped after %d products", n), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products\n", n)
	return nil
}

// loadSeedFile parses and validates a catalog file.
func loadSeedFile(path string) ([]domain.Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(f.Products) == 0 {
		return nil, fmt.Errorf("%s: no products", path)
	}

	out := make([]domain.Product, 0, len(f.Products))
	for i, sp := range f.Products {
		p, err := sp.product()
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i+1, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (sp seedProduct) product() (domain.Product, error) {
	if strings.TrimSpace(sp.Name) == "" || strings.TrimSpace(sp.Brand) == "" {
		return domain.Product{}, fmt.Errorf("%w: name and brand are required", domain.ErrInvalidProduct)
	}
	if sp.Price <= 0 {
		return domain.Product{}, fmt.Errorf("%w: %s has no price", domain.ErrInvalidProduct, sp.Name)
	}
	rarity := domain.Rarity(sp.Rarity)
	if !rarity.Valid() {
		return domain.Product{}, fmt.Errorf("%w: unknown rarity %q", domain.ErrInvalidProduct, sp.Rarity)
	}

	inStock := sp.Stock > 0
	if sp.InStock != nil {
		inStock = *sp.InStock
	}
	return domain.Product{
		Name:          sp.Name,
		Brand:         sp.Brand,
		Series:        sp.Series,
		Year:          sp.Year,
		Price:         sp.Price,
		OriginalPrice: sp.OriginalPrice,
		Image:         sp.Image,
		Description:   sp.Description,
		Condition:     sp.Condition,
		Category:      sp.Category,
		Color:         sp.Color,
		InStock:       inStock,
		Stock:         sp.Stock,
		Featured:      sp.Featured,
		Rarity:        rarity,
	}, nil
}
