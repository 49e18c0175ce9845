package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nacho-herrera/go-cocos/internal/domain"
)

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	profilesPath := filepath.Join(t.TempDir(), "profiles.toml")
	config := viper.New()
	config.Set("profiles.path", profilesPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)

	first := domain.Profile{
		ID:            "personal",
		Name:          "Personal",
		Email:         "nacho@example.com",
		PasswordRef:   "cocos://personal/password",
		TOTPSecretRef: "cocos://personal/totp",
	}
	second := domain.Profile{
		ID:          "work",
		Name:        "Work",
		Email:       "work@example.com",
		PasswordRef: "cocos://work/password",
	}

	require.NoError(t, repo.Save(context.Background(), first))
	require.NoError(t, repo.Save(context.Background(), second))

	got, err := repo.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	profiles, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Profile{first, second}, profiles)
}

func TestRepositorySaveOverwritesExistingProfile(t *testing.T) {
	t.Parallel()

	profilesPath := filepath.Join(t.TempDir(), "profiles.toml")
	config := viper.New()
	config.Set("profiles.path", profilesPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)

	profile := domain.Profile{ID: "personal", Name: "Personal", Email: "nacho@example.com"}
	require.NoError(t, repo.Save(context.Background(), profile))

	profile.LastAccountID = "10425"
	require.NoError(t, repo.Save(context.Background(), profile))

	got, err := repo.GetByID(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "10425", got.LastAccountID)

	profiles, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestRepositoryDelete(t *testing.T) {
	t.Parallel()

	profilesPath := filepath.Join(t.TempDir(), "profiles.toml")
	config := viper.New()
	config.Set("profiles.path", profilesPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), domain.Profile{ID: "personal", Name: "Personal"}))
	require.NoError(t, repo.Delete(context.Background(), "personal"))

	_, err = repo.GetByID(context.Background(), "personal")
	require.ErrorIs(t, err, domain.ErrProfileNotFound)

	err = repo.Delete(context.Background(), "personal")
	require.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestRepositorySaveCreatesDefaultPathAndEnforcesPermissions(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	repo, err := NewRepository(viper.New())
	require.NoError(t, err)

	err = repo.Save(context.Background(), domain.Profile{
		ID:    "personal",
		Name:  "Personal",
		Email: "nacho@example.com",
	})
	require.NoError(t, err)

	profilesPath := filepath.Join(homeDir, ".cocos", "profiles.toml")
	info, err := os.Stat(profilesPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRepositoryMissingFileBehaviors(t *testing.T) {
	t.Parallel()

	profilesPath := filepath.Join(t.TempDir(), "missing", "profiles.toml")
	config := viper.New()
	config.Set("profiles.path", profilesPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)

	profiles, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, profiles)

	_, err = repo.GetByID(context.Background(), "personal")
	require.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestRepositoryListMalformedTOMLReturnsError(t *testing.T) {
	t.Parallel()

	profilesPath := filepath.Join(t.TempDir(), "profiles.toml")
	require.NoError(t, os.WriteFile(profilesPath, []byte("profiles = ["), 0o600))

	config := viper.New()
	config.Set("profiles.path", profilesPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)

	_, err = repo.List(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode profiles file")
}

func TestRepositorySaveCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	profilesPath := filepath.Join(t.TempDir(), "profiles.toml")
	config := viper.New()
	config.Set("profiles.path", profilesPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = repo.Save(ctx, domain.Profile{ID: "personal", Name: "Personal"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRepositoryConcurrentSavesAcrossInstancesPreserveAllProfiles(t *testing.T) {
	t.Parallel()

	profilesPath := filepath.Join(t.TempDir(), "profiles.toml")

	newRepo := func() *Repository {
		config := viper.New()
		config.Set("profiles.path", profilesPath)
		repo, err := NewRepository(config)
		require.NoError(t, err)
		return repo
	}

	repoA := newRepo()
	repoB := newRepo()

	const perRepoWrites = 100
	start := make(chan struct{})
	errCh := make(chan error, perRepoWrites*2)
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < perRepoWrites; i++ {
			errCh <- repoA.Save(context.Background(), domain.Profile{ID: domain.ProfileID("a-" + strconv.Itoa(i)), Name: "A"})
		}
	}()

	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < perRepoWrites; i++ {
			errCh <- repoB.Save(context.Background(), domain.Profile{ID: domain.ProfileID("b-" + strconv.Itoa(i)), Name: "B"})
		}
	}()

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	profiles, err := repoA.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, profiles, perRepoWrites*2)
}

func TestRepositorySaveSerializedTOMLIncludesVersion(t *testing.T) {
	t.Parallel()

	profilesPath := filepath.Join(t.TempDir(), "profiles.toml")
	config := viper.New()
	config.Set("profiles.path", profilesPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), domain.Profile{ID: "personal", Name: "Personal"}))

	data, err := os.ReadFile(profilesPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
}

func TestRepositoryFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	profilesPath := filepath.Join(t.TempDir(), "profiles.toml")
	require.NoError(t, os.WriteFile(profilesPath, []byte(strings.Join([]string{
		"version = 999",
		"",
		"profiles = []",
		"",
	}, "\n")), 0o600))

	config := viper.New()
	config.Set("profiles.path", profilesPath)
	repo, err := NewRepository(config)
	require.NoError(t, err)

	_, err = repo.List(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported profiles schema version")
}
