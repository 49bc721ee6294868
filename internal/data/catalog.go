// Package data loads the crafting catalogs (item types, qualities, recipes)
// from YAML and checks recipe definitions against them.
package data

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/craftcore/internal/game/craft"
	"github.com/udisondev/craftcore/internal/model"
)

// Catalog file names inside the data directory.
const (
	ItemsFile     = "items.yaml"
	QualitiesFile = "qualities.yaml"
	RecipesFile   = "recipes.yaml"
)

// Catalogs bundles everything resolution and validation need.
// Values are immutable after Load and safe for concurrent readers.
type Catalogs struct {
	Items     *ItemCatalog
	Qualities *QualityCatalog
	Recipes   *RecipeCatalog
}

// Load reads items.yaml, qualities.yaml and recipes.yaml from dir.
// Files are parsed concurrently; each catalog records a BLAKE2b-256 digest
// of its source file.
func Load(ctx context.Context, dir string) (*Catalogs, error) {
	var (
		items     []itemDef
		qualities []qualityDef
		recipes   []recipeDef
		digests   [3]string
	)

	g, gctx := errgroup.WithContext(ctx)
	read := func(name string, dst any, digest *string) func() error {
		return func() (err error) {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}
			*digest, err = readYAML(filepath.Join(dir, name), dst)
			return err
		}
	}
	g.Go(read(ItemsFile, &items, &digests[0]))
	g.Go(read(QualitiesFile, &qualities, &digests[1]))
	g.Go(read(RecipesFile, &recipes, &digests[2]))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c, err := build(items, qualities, recipes)
	if err != nil {
		return nil, err
	}
	c.Items.Digest = digests[0]
	c.Qualities.Digest = digests[1]
	c.Recipes.Digest = digests[2]

	slog.Info("loaded crafting catalogs",
		"dir", dir,
		"items", c.Items.Len(),
		"qualities", len(c.Qualities.IDs()),
		"recipes", len(c.Recipes.All()),
		"recipes_digest", c.Recipes.Digest)
	return c, nil
}

func build(items []itemDef, qualities []qualityDef, recipes []recipeDef) (*Catalogs, error) {
	types := make([]*model.ItemType, 0, len(items))
	for _, d := range items {
		t, err := d.toItemType()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ItemsFile, err)
		}
		types = append(types, t)
	}
	itemCat, err := NewItemCatalog(types...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ItemsFile, err)
	}

	qs := make([]Quality, 0, len(qualities))
	for _, d := range qualities {
		q := Quality{ID: model.QualityID(d.ID), Name: d.Name}
		if q.Name == "" {
			q.Name = d.ID
		}
		qs = append(qs, q)
	}
	qualityCat, err := NewQualityCatalog(qs...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", QualitiesFile, err)
	}

	rs := make([]*craft.Recipe, 0, len(recipes))
	for _, d := range recipes {
		r, err := d.toRecipe()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", RecipesFile, err)
		}
		rs = append(rs, r)
	}
	recipeCat, err := NewRecipeCatalog(rs...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", RecipesFile, err)
	}

	return &Catalogs{Items: itemCat, Qualities: qualityCat, Recipes: recipeCat}, nil
}

// readYAML decodes path into out and returns the hex digest of the raw file.
func readYAML(path string, out any) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}
	return digest(raw), nil
}

func digest(raw []byte) string {
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
