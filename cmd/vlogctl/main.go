// vlogctl is a small terminal client for the vlogging platform, wiring the
// SDK together end-to-end: API client, credential stores, session manager
// and mutation engine.
//
//	vlogctl login <identifier> [-durable]
//	vlogctl register <username> <email>
//	vlogctl whoami
//	vlogctl follow <user-id>
//	vlogctl like <video-id>
//	vlogctl bookmark <video-id>
//	vlogctl logout
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/openvlog/vlogkit/pkg/api"
	"github.com/openvlog/vlogkit/pkg/config"
	"github.com/openvlog/vlogkit/pkg/credstore"
	"github.com/openvlog/vlogkit/pkg/logger"
	"github.com/openvlog/vlogkit/pkg/notify"
	"github.com/openvlog/vlogkit/pkg/session"
	"github.com/openvlog/vlogkit/pkg/social"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "vlogctl:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: vlogctl <login|register|whoami|follow|like|bookmark|logout> …")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var apiCfg api.Config
	if err := config.Load(&apiCfg); err != nil {
		return err
	}
	var sessCfg session.Config
	if err := config.Load(&sessCfg); err != nil {
		return err
	}

	log := logger.New()
	notifier := notify.NewLogNotifier(log)

	client, err := api.New(apiCfg)
	if err != nil {
		return err
	}

	durable, err := credstore.DefaultFileStore()
	if err != nil {
		return err
	}

	sessions, err := session.New(client,
		session.WithConfig(sessCfg),
		session.WithDurableStore(durable),
		session.WithNotifier(notifier),
		session.WithLogger(log),
	)
	if err != nil {
		return err
	}
	defer func() { _ = sessions.Close() }()

	engine, err := social.New(client, sessions,
		social.WithNotifier(notifier),
		social.WithLogger(log),
	)
	if err != nil {
		return err
	}

	if err := sessions.Bootstrap(ctx); err != nil {
		return err
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "login":
		return cmdLogin(ctx, sessions, rest)
	case "register":
		return cmdRegister(ctx, sessions, rest)
	case "whoami":
		return cmdWhoami(sessions)
	case "follow":
		return cmdToggle(ctx, engine, social.KindFollow, rest)
	case "like":
		return cmdToggle(ctx, engine, social.KindLike, rest)
	case "bookmark":
		return cmdToggle(ctx, engine, social.KindBookmark, rest)
	case "logout":
		sessions.Logout(ctx)
		engine.Reset()
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdLogin(ctx context.Context, sessions *session.Manager, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	durable := fs.Bool("durable", false, "remember the session across restarts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: vlogctl login <identifier> [-durable]")
	}

	secret, err := readSecret("Password: ")
	if err != nil {
		return err
	}

	if res := sessions.Login(ctx, fs.Arg(0), secret, *durable); !res.OK {
		return fmt.Errorf("%s", res.Message)
	}
	return nil
}

func cmdRegister(ctx context.Context, sessions *session.Manager, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: vlogctl register <username> <email>")
	}

	secret, err := readSecret("Choose a password: ")
	if err != nil {
		return err
	}

	res := sessions.Register(ctx, api.RegisterDetails{
		Username: args[0],
		Email:    args[1],
		Password: secret,
	})
	if !res.OK {
		return fmt.Errorf("%s", res.Message)
	}
	return nil
}

func cmdWhoami(sessions *session.Manager) error {
	view := sessions.Snapshot()
	if !view.Authenticated() {
		fmt.Println("not signed in")
		return nil
	}
	fmt.Printf("%s (%s)\n", view.Profile.Username, view.Profile.ID)
	if view.TokenExpiresAt != nil {
		fmt.Printf("access credential expires %s\n", view.TokenExpiresAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func cmdToggle(ctx context.Context, engine *social.Engine, kind social.Kind, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: vlogctl %s <id>", kind)
	}

	res := engine.Toggle(ctx, args[0], kind)
	switch {
	case res.Suppressed:
		return nil
	case !res.OK:
		return fmt.Errorf("%s", res.Message)
	default:
		return nil
	}
}

func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}
