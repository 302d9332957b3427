// Package bootstrap carga los datos iniciales (usuario admin y sus diarios).
package bootstrap

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
	"github.com/dropDatabas3/hellodiary/internal/security/password"
)

// Valores por defecto del admin de desarrollo.
const (
	DefaultAdminUsername  = "admin"
	DefaultAdminEmail     = "admin@example.com"
	DefaultAdminPassword  = "admin123"
	DefaultAdminFirstName = "Admin"
	DefaultAdminLastName  = "User"
)

// DefaultDiaryTitles son los diarios que recibe el admin.
var DefaultDiaryTitles = []string{"Мой первый дневник", "Рабочие заметки"}

// SeedConfig configura Seed. Campos vacíos toman los defaults.
type SeedConfig struct {
	Users   repository.UserRepository
	Diaries repository.DiaryRepository
	Hash    password.Params

	Username      string
	Email         string
	AdminPassword string
	DiaryTitles   []string
}

// SeedResult indica qué se creó en esta corrida.
type SeedResult struct {
	User           *repository.User
	UserCreated    bool
	DiariesCreated int
}

// Seed es get-or-create: correrlo varias veces deja el mismo estado.
// Un admin existente no se modifica (ni su password).
func Seed(ctx context.Context, cfg SeedConfig) (*SeedResult, error) {
	log := logger.From(ctx).With(logger.Component("bootstrap"), logger.Op("Seed"))
	cfg.defaults()

	res := &SeedResult{}

	u, err := cfg.Users.GetByUsername(ctx, cfg.Username)
	switch {
	case err == nil:
		log.Info("admin user exists", logger.UserID(u.ID))
	case repository.IsNotFound(err):
		u, err = createAdmin(ctx, cfg)
		if err != nil {
			return nil, err
		}
		res.UserCreated = true
		log.Info("admin user created", logger.UserID(u.ID), logger.Username(u.Username))
	default:
		return nil, fmt.Errorf("get admin: %w", err)
	}
	res.User = u

	existing, err := cfg.Diaries.ListByOwner(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("list diaries: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, d := range existing {
		have[d.Title] = true
	}

	for _, title := range cfg.DiaryTitles {
		if have[title] {
			continue
		}
		if _, err := cfg.Diaries.Create(ctx, repository.CreateDiaryInput{OwnerID: u.ID, Title: title}); err != nil {
			return nil, fmt.Errorf("create diary %q: %w", title, err)
		}
		res.DiariesCreated++
	}
	log.Info("seed completed", logger.Count(res.DiariesCreated))
	return res, nil
}

func (c *SeedConfig) defaults() {
	if c.Username == "" {
		c.Username = DefaultAdminUsername
	}
	if c.Email == "" {
		c.Email = DefaultAdminEmail
	}
	if c.AdminPassword == "" {
		c.AdminPassword = DefaultAdminPassword
	}
	if c.DiaryTitles == nil {
		c.DiaryTitles = DefaultDiaryTitles
	}
	if c.Hash == (password.Params{}) {
		c.Hash = password.Default
	}
}

func createAdmin(ctx context.Context, cfg SeedConfig) (*repository.User, error) {
	phc, err := password.Hash(cfg.Hash, cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	u, err := cfg.Users.Create(ctx, repository.CreateUserInput{
		Username:     cfg.Username,
		Email:        strings.ToLower(cfg.Email),
		PasswordHash: phc,
		FirstName:    DefaultAdminFirstName,
		LastName:     DefaultAdminLastName,
		IsStaff:      true,
	})
	if repository.IsConflict(err) {
		return nil, fmt.Errorf("admin email %q belongs to another user", cfg.Email)
	}
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return u, nil
}

// PromptPassword pide el password del admin sin eco (terminal) con confirmación.
// Si in no es una terminal, lee una línea en claro.
func PromptPassword(in *os.File, out io.Writer) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(out, "Admin password: ")
	pwd, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	fmt.Fprint(out, "Confirm password: ")
	confirm, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	if string(pwd) != string(confirm) {
		return "", errors.New("passwords do not match")
	}
	return string(pwd), nil
}
