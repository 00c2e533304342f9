package registration

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/signup/auth"
	apperrors "github.com/kbukum/signup/errors"
	"github.com/kbukum/signup/logger"
	"github.com/kbukum/signup/observability"
	"github.com/kbukum/signup/util"
	"github.com/kbukum/signup/validation"
)

// Submission is one pass of a form through the protocol. It is not safe
// for concurrent use.
type Submission struct {
	c     *Controller
	form  Form
	phase Phase

	span     trace.Span
	started  time.Time
	fieldErr *validation.FieldError
	provErr  error
	result   *auth.SignUpResult
}

// Phase returns the phase reached by the last Step.
func (s *Submission) Phase() Phase { return s.phase }

// Form returns the submitted form.
func (s *Submission) Form() Form { return s.form }

// FieldError returns the validation failure, if the form was refused locally.
func (s *Submission) FieldError() *validation.FieldError { return s.fieldErr }

// ProviderError returns the error of the provider call, if it failed. Under
// PolicyIgnore it may be set on a successful submission.
func (s *Submission) ProviderError() error { return s.provErr }

// Result returns the account created by the provider.
func (s *Submission) Result() *auth.SignUpResult { return s.result }

// Step advances to the next suspension point and returns the phase reached:
//
//	PhasePending    -> PhaseSubmitting  (loading emitted)
//	PhaseSubmitting -> PhaseFailed or PhaseSucceeded  (validated, provider resolved)
//	PhaseSucceeded  -> PhaseRedirected  (delay elapsed, redirect emitted)
//
// A context that ends during the provider call or the delay yields
// PhaseAborted with the context error.
func (s *Submission) Step(ctx context.Context) (Phase, error) {
	switch s.phase {
	case PhasePending:
		s.start(ctx)
	case PhaseSubmitting:
		if err := s.resolve(ctx); err != nil {
			return s.phase, err
		}
	case PhaseSucceeded:
		if err := s.redirect(ctx); err != nil {
			return s.phase, err
		}
	default:
		return s.phase, ErrSubmissionDone
	}
	return s.phase, nil
}

// Run steps until a terminal phase.
func (s *Submission) Run(ctx context.Context) (Phase, error) {
	for !s.phase.Terminal() {
		if _, err := s.Step(ctx); err != nil {
			return s.phase, err
		}
	}
	return s.phase, nil
}

func (s *Submission) opts() *options { return &s.c.opts }

func (s *Submission) log(ctx context.Context) *logger.Logger {
	return s.opts().log.WithContext(ctx)
}

func (s *Submission) start(ctx context.Context) {
	s.started = s.opts().now()
	_, s.span = s.opts().tracer.Start(ctx, observability.SpanRegistrationSubmit,
		trace.WithAttributes(attribute.String("registration.email_hash", util.EmailFingerprint(s.form.Email))))

	s.c.setState(func(st *State) { st.IsLoading = true })
	s.phase = PhaseSubmitting
}

func (s *Submission) resolve(ctx context.Context) error {
	o := s.opts()
	if fe := validation.CheckForm(s.form.Email, s.form.Password, s.form.ConfirmPassword); fe != nil {
		s.fieldErr = fe
		s.refuse(ctx, fe.Code, fe.Field)
		o.metrics.RecordSubmission(ctx, OutcomeValidationFailed, string(fe.Code))
		s.log(ctx).Debug("registration form refused", logger.Fields(
			logger.FieldField, fe.Field, logger.FieldCode, string(fe.Code)))
		s.finish(PhaseFailed)
		return nil
	}

	callCtx := trace.ContextWithSpan(ctx, s.span)
	callStart := o.now()
	res, err := s.c.provider.SignUp(callCtx, s.form.Email, s.form.Password)
	elapsed := o.now().Sub(callStart)
	o.metrics.RecordProviderCall(ctx, elapsed, err != nil)

	if err != nil && ctx.Err() != nil {
		s.provErr = err
		s.c.setState(func(st *State) { st.IsLoading = false })
		return s.abort(ctx, ctx.Err())
	}

	emailHash := util.EmailFingerprint(s.form.Email)
	if err != nil {
		s.provErr = err
		if o.policy == PolicySurface {
			code, field := rejectionCode(err)
			s.refuse(ctx, code, field)
			o.metrics.RecordSubmission(ctx, OutcomeProviderFailed, string(code))
			s.span.RecordError(err)
			s.span.SetStatus(codes.Error, "signup rejected")
			s.log(ctx).WithError(err).Warn("signup rejected by provider", logger.Fields(
				logger.FieldEmailHash, emailHash, logger.FieldCode, string(code)))
			s.finish(PhaseFailed)
			return nil
		}
		s.log(ctx).WithError(err).Warn("signup provider failed, reporting success", logger.Fields(
			logger.FieldEmailHash, emailHash))
	}

	s.result = res
	s.c.setState(func(st *State) {
		st.ErrorMessage = ""
		st.Success = true
		st.IsLoading = false
	})
	o.metrics.RecordSubmission(ctx, OutcomeSucceeded, "")
	fields := logger.DurationFields("signup", elapsed)
	fields[logger.FieldEmailHash] = emailHash
	if res != nil {
		fields[logger.FieldProviderID] = res.UserID
	}
	s.log(ctx).Info("registration succeeded", fields)
	s.phase = PhaseSucceeded
	return nil
}

func (s *Submission) redirect(ctx context.Context) error {
	o := s.opts()
	if err := o.sleep(ctx, o.redirectDelay); err != nil {
		s.c.setState(func(st *State) { st.Success = false })
		return s.abort(ctx, err)
	}
	s.c.emit(redirect(o.loginRoute))
	s.c.setState(func(st *State) { st.Success = false })
	s.finish(PhaseRedirected)
	return nil
}

// refuse shows the localized message for code and sends the directives
// for the offending field.
func (s *Submission) refuse(ctx context.Context, code apperrors.ErrorCode, field string) {
	msg := s.opts().localizer.Text(string(code))
	s.c.setState(func(st *State) {
		st.ErrorMessage = msg
		st.Success = false
		st.IsLoading = false
	})
	switch field {
	case "":
	case validation.FieldConfirmPassword:
		s.c.emit(clearField(field), focus(field))
	default:
		s.c.emit(focus(field))
	}
}

func (s *Submission) abort(ctx context.Context, err error) error {
	if s.phase == PhaseSubmitting {
		s.opts().metrics.RecordSubmission(ctx, OutcomeAborted, "")
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, "aborted")
	s.log(ctx).Debug("registration aborted", logger.Fields(logger.FieldPhase, s.phase.String()))
	s.finish(PhaseAborted)
	return err
}

func (s *Submission) finish(p Phase) {
	s.phase = p
	s.span.SetAttributes(attribute.String("registration.phase", p.String()))
	s.span.End()
	s.c.release()
}

// rejectionCode maps a provider refusal to the message shown and the field
// to focus.
func rejectionCode(err error) (apperrors.ErrorCode, string) {
	switch auth.ReasonOf(err) {
	case auth.ReasonEmailTaken:
		return apperrors.ErrCodeEmailTaken, validation.FieldEmail
	case auth.ReasonWeakPassword:
		return apperrors.ErrCodeWeakPassword, validation.FieldPassword
	case auth.ReasonRateLimited:
		return apperrors.ErrCodeRateLimited, ""
	}
	return apperrors.ErrCodeSignupRejected, ""
}
