// Command mint-token prints a bearer token for a directory user, signed with
// the same key the auction server loads.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"live-auction/internal/auth"
	"live-auction/internal/config"
	"live-auction/internal/directory"
	"live-auction/utils"

	"github.com/spf13/pflag"
)

func main() {
	// stdout carries only the token
	utils.SetOutput(os.Stderr)

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cfg := config.Load()

	var (
		userID     string
		seedFile   string
		secret     string
		secretFile string
		ttl        time.Duration
	)

	flagSet := pflag.NewFlagSet("mint-token", pflag.ContinueOnError)
	flagSet.StringVarP(&userID, "user", "u", "", "user id to mint a token for (required)")
	flagSet.StringVar(&seedFile, "seed", cfg.SeedFile, "YAML seed file holding the user (default: demo users)")
	flagSet.StringVar(&secret, "secret", cfg.JWTSecret, "signing secret, overrides --secret-file")
	flagSet.StringVar(&secretFile, "secret-file", cfg.JWTSecretFile, "hex signing key file shared with the server")
	flagSet.DurationVar(&ttl, "ttl", cfg.TokenTTL, "token lifetime, 0 for no expiry")
	flagSet.SetOutput(out)
	flagSet.Usage = func() {
		fmt.Fprintf(out, "Usage: mint-token --user ID [flags]\n\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if userID == "" {
		return errors.New("--user is required")
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	dir := directory.NewMemory()
	if seedFile != "" {
		if err := dir.LoadSeed(seedFile); err != nil {
			return err
		}
	} else if err := dir.Apply(directory.DemoSeed()); err != nil {
		return err
	}

	user, err := dir.FindByID(userID)
	if err != nil {
		return err
	}

	key, err := auth.LoadSigningKey(secret, secretFile)
	if err != nil {
		return err
	}

	token, err := auth.NewVerifier(key, dir, ttl).Issue(user)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
