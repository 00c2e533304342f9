package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/signup/auth/supabase"
	"github.com/kbukum/signup/bootstrap"
	"github.com/kbukum/signup/logger"
	"github.com/kbukum/signup/observability"
	"github.com/kbukum/signup/registration"
	"github.com/kbukum/signup/util"
	"github.com/kbukum/signup/version"
)

var errRegistrationFailed = errors.New("registration failed")

func submitCmd() *cobra.Command {
	var form registration.Form
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Run one registration against the configured provider",
		Long: "Runs one registration headless and logs every event. " +
			"Exits with status 1 when the registration ends in a failure.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runSubmit(cmd.Context(), cfg, form)
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.Password, "password", "", "password")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm", "", "password confirmation")
	return cmd
}

func runSubmit(ctx context.Context, cfg *Config, form registration.Form) error {
	app, err := bootstrap.NewApp(cfg, bootstrap.WithSummaryOutput(io.Discard))
	if err != nil {
		return err
	}
	log := app.Logger

	telemetry := observability.NewComponent(cfg.Observability, cfg.Name, version.Get().String(), cfg.Environment)
	if err := app.RegisterComponent(telemetry); err != nil {
		return err
	}
	provider, client, err := newProvider(cfg, log)
	if err != nil {
		return err
	}
	if client != nil {
		if err := app.RegisterComponent(supabase.NewComponent(client)); err != nil {
			return err
		}
	}
	opts, err := controllerOptions(cfg, log)
	if err != nil {
		return err
	}
	ctrl := registration.New(provider, opts...)
	unsubscribe := ctrl.Subscribe(logEvent(log.WithComponent("submit")))
	defer unsubscribe()

	return app.RunTask(ctx, func(ctx context.Context) error {
		log.Info("submitting registration", logger.Fields("email", util.MaskEmail(form.Email)))
		phase, err := ctrl.Submit(ctx, form)
		if err != nil {
			return fmt.Errorf("submit: %w", err)
		}
		if phase == registration.PhaseFailed {
			return fmt.Errorf("%w: %s", errRegistrationFailed, ctrl.State().ErrorMessage)
		}
		log.Info("registration finished", logger.Fields(logger.FieldPhase, phase.String()))
		return nil
	})
}

func logEvent(log *logger.Logger) func(registration.Event) {
	return func(e registration.Event) {
		fields := logger.Fields("kind", string(e.Kind))
		switch e.Kind {
		case registration.EventStateChanged:
			fields["is_loading"] = e.State.IsLoading
			fields["success"] = e.State.Success
			if e.State.ErrorMessage != "" {
				fields["error_message"] = e.State.ErrorMessage
			}
		case registration.EventFocus, registration.EventClear:
			fields[logger.FieldField] = e.Field
		case registration.EventRedirect:
			fields["target"] = e.Target
		}
		log.Info("registration event", fields)
	}
}
