package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/noteshive/noteshive/internal/api"
	"github.com/noteshive/noteshive/internal/auth"
	"github.com/noteshive/noteshive/internal/config"
	"github.com/noteshive/noteshive/internal/notes"
)

var (
	errNotSignedIn    = errors.New("not signed in; run `noteshive login` first")
	errSessionExpired = errors.New("session expired; run `noteshive login` again")
)

// cli carries what every subcommand shares once the root has parsed its flags.
type cli struct {
	configPath string
	debug      bool

	cfg    *config.Config
	logger *slog.Logger
	in     *bufio.Reader

	// now is replaced in tests.
	now func() time.Time
}

func newRootCmd() *cobra.Command {
	c := &cli{now: time.Now}

	root := &cobra.Command{
		Use:   "noteshive",
		Short: "NotesHive in the terminal",
		Long: `noteshive signs in to a NotesHive account and manages its notes.
Run without a subcommand to open the interactive dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(c.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			c.cfg = cfg

			level := slog.LevelWarn
			if c.debug {
				level = slog.LevelDebug
			}
			c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			c.in = bufio.NewReader(cmd.InOrStdin())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI()
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to config file")
	root.PersistentFlags().BoolVar(&c.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newTUICmd(c),
		newLoginCmd(c),
		newSignupCmd(c),
		newLogoutCmd(c),
		newWhoamiCmd(c),
		newListCmd(c),
		newAddCmd(c),
		newEditCmd(c),
		newRmCmd(c),
		newGenerateCmd(c),
		newExportCmd(c),
		newAvatarCmd(c),
		newConfigCmd(c),
		newVersionCmd(c),
	)
	return root
}

func (c *cli) sessions() *auth.FileStore {
	return auth.NewFileStore(c.cfg.Session.Path)
}

// anon returns a client for the unauthenticated auth endpoints.
func (c *cli) anon() *api.Client {
	return c.anonWith(c.logger)
}

func (c *cli) anonWith(logger *slog.Logger) *api.Client {
	opts := []api.Option{api.WithLogger(logger)}
	if c.cfg.API.Timeout > 0 {
		opts = append(opts, api.WithTimeout(c.cfg.API.Timeout))
	}
	return api.NewClient(c.cfg.API.BaseURL, nil, opts...)
}

// client returns a client carrying the saved session.
func (c *cli) client() (*api.Client, *auth.Session, error) {
	sess, err := c.sessions().Load()
	if errors.Is(err, auth.ErrNoSession) {
		return nil, nil, errNotSignedIn
	}
	if err != nil {
		return nil, nil, err
	}
	if !sess.Valid(c.now()) {
		return nil, nil, errSessionExpired
	}
	return c.anon().WithCredentials(sess), sess, nil
}

// store returns a loaded note store for the signed-in user.
func (c *cli) store(cmd *cobra.Command) (*notes.Store, error) {
	client, _, err := c.client()
	if err != nil {
		return nil, err
	}
	store := notes.NewStore(client, c.logger)
	if err := store.Load(cmd.Context()); err != nil {
		return nil, failure(err)
	}
	return store, nil
}

// findNote looks id up in a freshly loaded collection.
func (c *cli) findNote(cmd *cobra.Command, id string) (*notes.Store, notes.Note, error) {
	store, err := c.store(cmd)
	if err != nil {
		return nil, notes.Note{}, err
	}
	n, ok := store.Find(id)
	if !ok {
		return nil, notes.Note{}, fmt.Errorf("no note with id %q", id)
	}
	return store, n, nil
}

// prompt asks for a line on stdin unless value is already set.
func (c *cli) prompt(cmd *cobra.Command, label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", label)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// failure turns a service or store error into the message a user should read.
func failure(err error) error {
	if api.IsUnauthorized(err) {
		return errSessionExpired
	}
	var ae *notes.ActionError
	if errors.As(err, &ae) {
		return errors.New(notes.UserMessage(err))
	}
	return errors.New(api.ErrorText(err))
}
