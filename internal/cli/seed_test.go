package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diecastgarage/storefront/internal/core/domain"
)

func TestLoadSeedFile(t *testing.T) {
	products, err := loadSeedFile(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)
	require.Len(t, products, 2)

	camaro := products[0]
	assert.Equal(t, "'67 Camaro", camaro.Name)
	assert.Equal(t, 2020, camaro.Year)
	assert.InDelta(t, 19.9, camaro.Price, 1e-9)
	require.NotNil(t, camaro.OriginalPrice)
	assert.InDelta(t, 24.9, *camaro.OriginalPrice, 1e-9)
	assert.True(t, camaro.InStock)
	assert.Equal(t, domain.RarityTreasureHunt, camaro.Rarity)

	skyline := products[1]
	assert.Nil(t, skyline.OriginalPrice)
	assert.False(t, skyline.InStock, "stock 0 without inStock means sold out")
}

func TestLoadSeedFile_Invalid(t *testing.T) {
	_, err := loadSeedFile(filepath.Join("testdata", "invalid.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)
}

func TestLoadSeedFile_Missing(t *testing.T) {
	_, err := loadSeedFile(filepath.Join("testdata", "nope.yaml"))
	require.Error(t, err)
}

func TestSeedCommand_Memory(t *testing.T) {
	out, err := execute(t, memoryConfig(), "seed", "--file", filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 2 products")
}

func TestSeedCommand_BadFile(t *testing.T) {
	_, err := execute(t, memoryConfig(), "seed", "--file", filepath.Join("testdata", "invalid.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
