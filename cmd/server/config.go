package main

import (
	"context"
	"crypto/rand"
	databaseSQL "database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	randv2 "math/rand"
	"net/url"
	"os"
	"time"

	"github.com/jacobpatterson1549/picture-puzzle/db"
	"github.com/jacobpatterson1549/picture-puzzle/db/bcrypt"
	"github.com/jacobpatterson1549/picture-puzzle/db/firestore"
	"github.com/jacobpatterson1549/picture-puzzle/db/mongo"
	"github.com/jacobpatterson1549/picture-puzzle/db/sql"
	"github.com/jacobpatterson1549/picture-puzzle/db/sql/postgres"
	"github.com/jacobpatterson1549/picture-puzzle/db/user"
	"github.com/jacobpatterson1549/picture-puzzle/puzzle"
	"github.com/jacobpatterson1549/picture-puzzle/server"
	"github.com/jacobpatterson1549/picture-puzzle/server/auth"
	"github.com/jacobpatterson1549/picture-puzzle/server/certificate"
	"github.com/jacobpatterson1549/picture-puzzle/server/lobby"
	"github.com/jacobpatterson1549/picture-puzzle/server/log"
	puzzleController "github.com/jacobpatterson1549/picture-puzzle/server/puzzle"
	"github.com/jacobpatterson1549/picture-puzzle/server/socket"
	"github.com/jacobpatterson1549/picture-puzzle/server/socket/gorilla"
	_ "github.com/lib/pq" // register "postgres" database driver from package init() function
	"gopkg.in/yaml.v3"
)

// puzzleSettings are the options of the puzzle settings file.
type puzzleSettings struct {
	// Dimension is the default number of rows and columns of new puzzles.
	Dimension int `yaml:"dimension"`
	// MaxPuzzles is the most puzzles that can exist at once on the server.
	MaxPuzzles int `yaml:"maxPuzzles"`
	// WinPoints is added to the player's account for each solved puzzle.
	WinPoints int `yaml:"winPoints"`
	// IdlePeriod is how long a puzzle can go without messages before it is deleted.
	IdlePeriod time.Duration `yaml:"idlePeriod"`
	// ReshuffleUnsolvable causes shuffles to be repeated until they are solvable.
	ReshuffleUnsolvable bool `yaml:"reshuffleUnsolvable"`
}

const (
	queryPeriod      = 5 * time.Second
	stopDur          = 5 * time.Second
	tokenValidPeriod = 24 * time.Hour
)

// defaultPuzzleSettings are used for settings that are not in the settings file.
func defaultPuzzleSettings() puzzleSettings {
	return puzzleSettings{
		Dimension:  4,
		MaxPuzzles: 64,
		WinPoints:  10,
		IdlePeriod: 60 * time.Minute,
	}
}

// readPuzzleSettings decodes the yaml settings over the defaults.
// An empty reader produces the default settings.
func readPuzzleSettings(r io.Reader) (*puzzleSettings, error) {
	ps := defaultPuzzleSettings()
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(&ps); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding puzzle settings: %w", err)
	}
	cfg := puzzle.Config{
		Dimension: ps.Dimension,
	}
	switch err := cfg.Validate(); {
	case err != nil:
		return nil, fmt.Errorf("validating puzzle settings: %w", err)
	case ps.MaxPuzzles < 1:
		return nil, fmt.Errorf("validating puzzle settings: positive maxPuzzles required")
	case ps.WinPoints < 0:
		return nil, fmt.Errorf("validating puzzle settings: nonnegative winPoints required")
	case ps.IdlePeriod <= 0:
		return nil, fmt.Errorf("validating puzzle settings: positive idlePeriod required")
	}
	return &ps, nil
}

// loadPuzzleSettings reads the settings file, if one is specified.
func (m mainFlags) loadPuzzleSettings() (*puzzleSettings, error) {
	if len(m.puzzleConfigFile) == 0 {
		ps := defaultPuzzleSettings()
		return &ps, nil
	}
	f, err := os.Open(m.puzzleConfigFile)
	if err != nil {
		return nil, fmt.Errorf("opening puzzle settings file: %w", err)
	}
	defer f.Close()
	return readPuzzleSettings(f)
}

// createServer creates the server and the components it runs.
func (m mainFlags) createServer(ctx context.Context, log log.Logger, sqlFS fs.FS) (*server.Server, error) {
	ps, err := m.loadPuzzleSettings()
	if err != nil {
		return nil, err
	}
	backend, err := m.userBackend(ctx, sqlFS)
	if err != nil {
		return nil, fmt.Errorf("creating user backend: %w", err)
	}
	ph := bcrypt.NewPasswordHandler(0)
	ud, err := user.NewDao(backend, ph)
	if err != nil {
		return nil, err
	}
	tokenizerCfg := tokenizerConfig(rand.Reader, unixTime)
	tokenizer, err := tokenizerCfg.NewTokenizer()
	if err != nil {
		return nil, err
	}
	runnerCfg := m.puzzleRunnerConfig(*ps)
	puzzleRunner, err := runnerCfg.NewRunner(log, ud)
	if err != nil {
		return nil, err
	}
	lobbyCfg := m.lobbyConfig()
	upgrader := gorilla.NewUpgrader()
	l, err := lobbyCfg.NewLobby(log, upgrader, puzzleRunner)
	if err != nil {
		return nil, err
	}
	cfg := server.Config{
		Port:        m.port,
		StopDur:     stopDur,
		TLSCertFile: m.tlsCertFile,
		TLSKeyFile:  m.tlsKeyFile,
		PuzzleConfig: puzzle.Config{
			Dimension: ps.Dimension,
		},
		Challenge: certificate.Challenge{
			Token: m.challengeToken,
			Key:   m.challengeKey,
		},
	}
	p := server.Parameters{
		Log:       log,
		Tokenizer: tokenizer,
		UserDao:   ud,
		Lobby:     l,
	}
	return cfg.NewServer(p)
}

// userBackend creates the backend named by the scheme of the data source url.
// Users are not stored if there is no data source.
func (m mainFlags) userBackend(ctx context.Context, sqlFS fs.FS) (user.Backend, error) {
	if len(m.databaseURL) == 0 {
		return user.NoDatabaseBackend{}, nil
	}
	u, err := url.Parse(m.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing data source: %w", err)
	}
	cfg := db.Config{
		QueryPeriod: queryPeriod,
	}
	switch u.Scheme {
	case "postgres", "postgresql":
		ub, err := postgresUserBackend(ctx, cfg, m.databaseURL, sqlFS)
		if err != nil {
			return nil, err
		}
		return ub, nil
	case "mongodb", "mongodb+srv":
		ub, err := mongo.Connect(ctx, cfg, m.databaseURL)
		if err != nil {
			return nil, err
		}
		if err := ub.Setup(ctx); err != nil {
			return nil, err
		}
		return ub, nil
	case "firestore":
		ub, err := firestore.NewUserBackend(ctx, cfg, u.Host)
		if err != nil {
			return nil, err
		}
		return ub, nil
	}
	return nil, fmt.Errorf("unknown data source scheme: %q", u.Scheme)
}

// postgresUserBackend opens the database and creates the users table and functions.
func postgresUserBackend(ctx context.Context, cfg db.Config, databaseURL string, sqlFS fs.FS) (*postgres.UserBackend, error) {
	sqlDB, err := databaseSQL.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening postgres database: %w", err)
	}
	d, err := sql.NewDatabase(sqlDB, cfg)
	if err != nil {
		return nil, err
	}
	ub, err := postgres.NewUserBackend(d)
	if err != nil {
		return nil, err
	}
	files, err := sqlFiles(sqlFS)
	if err != nil {
		return nil, err
	}
	if err := ub.Setup(ctx, files); err != nil {
		return nil, err
	}
	return ub, nil
}

// tokenizerConfig creates the configuration for authentication token reader/writer.
func tokenizerConfig(keyReader io.Reader, timeFunc func() int64) auth.TokenizerConfig {
	cfg := auth.TokenizerConfig{
		KeyReader: keyReader,
		TimeFunc:  timeFunc,
		ValidSec:  int64(tokenValidPeriod.Seconds()),
	}
	return cfg
}

// puzzleRunnerConfig creates the configuration for running and managing puzzles.
func (m mainFlags) puzzleRunnerConfig(ps puzzleSettings) puzzleController.RunnerConfig {
	puzzleCfg := puzzleController.Config{
		Debug:               m.debug,
		TimeFunc:            unixTime,
		IntNFunc:            randv2.Intn,
		IdlePeriod:          ps.IdlePeriod,
		WinPoints:           ps.WinPoints,
		ReshuffleUnsolvable: ps.ReshuffleUnsolvable,
	}
	cfg := puzzleController.RunnerConfig{
		Debug:      m.debug,
		MaxPuzzles: ps.MaxPuzzles,
		PuzzleConfig: puzzle.Config{
			Dimension: ps.Dimension,
		},
		Config: puzzleCfg,
	}
	return cfg
}

// lobbyConfig creates the configuration for the lobby and the sockets it opens (one for each connected player).
func (m mainFlags) lobbyConfig() lobby.Config {
	socketCfg := socket.Config{
		Debug:          m.debug,
		TimeFunc:       time.Now,
		ReadWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		PingPeriod:     54 * time.Second, // readWait * 0.9
		IdlePeriod:     15 * time.Minute,
		HTTPPingPeriod: 10 * time.Minute,
	}
	cfg := lobby.Config{
		Debug:            m.debug,
		MaxSockets:       32,
		SocketBufferSize: 16,
		SocketConfig:     socketCfg,
	}
	return cfg
}

// unixTime is the current time in seconds since the unix epoch.
func unixTime() int64 {
	return time.Now().UTC().Unix()
}
