// Command signup fills in the signup form from the terminal and submits it
// to a running API, following the same rules as the landing page.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"signup-funnel-backend/config"
	"signup-funnel-backend/internal/funnel"
	"signup-funnel-backend/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	phoneNumber := fs.String("phone", "", "UK phone number, national or +44 form")
	terms := fs.Bool("terms", false, "accept the terms and conditions")
	company := fs.String("company", "", "honeypot field; leave empty")
	endpoint := fs.String("endpoint", cfg.SignupEndpoint, "signup endpoint")
	redirect := fs.String("redirect", cfg.SuccessRedirectURL, "where to go after a successful signup")
	timeout := fs.Duration("timeout", 10*time.Second, "request timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	in := bufio.NewScanner(stdin)
	prompt := func(label string, value *string) {
		if *value != "" {
			return
		}
		fmt.Fprintf(stdout, "%s: ", label)
		if in.Scan() {
			*value = in.Text()
		}
	}
	prompt("Full name", name)
	prompt("Email", email)
	prompt("Phone", phoneNumber)

	form := &funnel.SignupForm{}
	form.SetFullName(*name)
	form.SetEmail(strings.TrimSpace(*email))
	form.SetPhone(*phoneNumber)
	form.SetTermsAccepted(*terms)
	form.SetHoneypot(*company)

	fmt.Fprintf(stdout, "Phone: %s\n", form.PhoneDisplay)

	if !form.CanSubmit() {
		fmt.Fprintln(stderr, "You must accept the terms and conditions (-terms)")
		return 1
	}

	navigator := funnel.NewRedirectRecorder(stdout)
	controller := funnel.NewController(
		funnel.NewValidator(),
		funnel.NewHTTPSubmitter(*endpoint, &http.Client{Timeout: *timeout}),
		navigator,
		funnel.WriterNotifier{Out: stderr},
		*redirect,
		funnel.WithTransitionHook(func(from, to funnel.State) {
			logger.Log.Debug("Signup state changed", "from", from.String(), "to", to.String())
		}),
	)

	outcome, err := controller.Submit(ctx, form)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	switch outcome.Kind {
	case funnel.OutcomeSuccess:
		return 0
	case funnel.OutcomeValidationFailed:
		fields := make([]string, 0, len(outcome.Errors))
		for field := range outcome.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(stderr, "%s: %s\n", field, outcome.Errors[field])
		}
		return 1
	case funnel.OutcomeSpamDetected:
		// Looks like success from the outside
		return 0
	default:
		return 1
	}
}
