package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/certledger/internal/api/grpc/proto"
	"github.com/dtroode/certledger/internal/logger"
	"github.com/dtroode/certledger/internal/metrics"
	"github.com/dtroode/certledger/internal/model"
)

// AccountService defines account registry operations.
type AccountService interface {
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, account model.Account) error
	Read(ctx context.Context, id string) (model.Account, error)
	Update(ctx context.Context, patch model.AccountPatch) (model.Account, error)
	Delete(ctx context.Context, id string) error
}

// CourseService defines course registry operations.
type CourseService interface {
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, course model.Course) error
	Read(ctx context.Context, id string) (model.Course, error)
	Update(ctx context.Context, patch model.CoursePatch) (model.Course, error)
	Delete(ctx context.Context, id string) error
	Enroll(ctx context.Context, courseID, studentID string) error
	Disenroll(ctx context.Context, courseID, studentID string) error
}

// CertificateService defines certificate registry operations exposed over
// the API. Certificates are created only through issuance.
type CertificateService interface {
	Exists(ctx context.Context, id string) (bool, error)
	Read(ctx context.Context, id string) (model.Certificate, error)
	Delete(ctx context.Context, id string) error
}

// IssuanceService issues and reconciles certificates.
type IssuanceService interface {
	IssueCertificate(ctx context.Context, courseID, studentID string) (string, error)
	ReconcileCertificate(ctx context.Context, certificateID string) (bool, error)
}

type invokeFunc func(ctx context.Context, args []string) (any, error)

// ReconcileResult is the payload of ReconcileCertificate.
type ReconcileResult struct {
	Linked bool `json:"linked"`
}

// Ledger handles the Invoke endpoint by dispatching on the function name.
type Ledger struct {
	accounts     AccountService
	courses      CourseService
	certificates CertificateService
	issuance     IssuanceService
	validate     *validator.Validate
	metrics      *metrics.Metrics
	logger       *logger.Logger

	functions map[string]invokeFunc
}

var _ proto.LedgerServer = (*Ledger)(nil)

// NewLedger creates a new Ledger handler.
func NewLedger(
	accounts AccountService,
	courses CourseService,
	certificates CertificateService,
	issuance IssuanceService,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Ledger {
	h := &Ledger{
		accounts:     accounts,
		courses:      courses,
		certificates: certificates,
		issuance:     issuance,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		metrics:      metrics,
		logger:       logger,
	}

	h.functions = map[string]invokeFunc{
		proto.FunctionAccountExists:        h.accountExists,
		proto.FunctionCreateAccount:        h.createAccount,
		proto.FunctionReadAccount:          h.readAccount,
		proto.FunctionUpdateAccount:        h.updateAccount,
		proto.FunctionDeleteAccount:        h.deleteAccount,
		proto.FunctionCourseExists:         h.courseExists,
		proto.FunctionCreateCourse:         h.createCourse,
		proto.FunctionReadCourse:           h.readCourse,
		proto.FunctionUpdateCourse:         h.updateCourse,
		proto.FunctionDeleteCourse:         h.deleteCourse,
		proto.FunctionEnrollStudent:        h.enrollStudent,
		proto.FunctionDisenrollStudent:     h.disenrollStudent,
		proto.FunctionCertificateExists:    h.certificateExists,
		proto.FunctionReadCertificate:      h.readCertificate,
		proto.FunctionDeleteCertificate:    h.deleteCertificate,
		proto.FunctionIssueCertificate:     h.issueCertificate,
		proto.FunctionReconcileCertificate: h.reconcileCertificate,
	}

	return h
}

// Invoke runs a ledger function and wraps its result in {"payload": ...}.
func (h *Ledger) Invoke(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	start := time.Now()

	function, args, err := parseRequest(req)
	if err != nil {
		h.metrics.ObserveInvocation("invalid", codes.InvalidArgument.String(), time.Since(start))
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	fn, ok := h.functions[function]
	if !ok {
		h.metrics.ObserveInvocation("unknown", codes.Unimplemented.String(), time.Since(start))
		return nil, status.Errorf(codes.Unimplemented, "unknown function %q", function)
	}

	h.logger.Debug("Ledger handler: processing invocation",
		"function", function,
		"args", len(args))

	payload, err := fn(ctx, args)
	if err != nil {
		grpcErr := handleError(err)
		h.metrics.ObserveInvocation(function, status.Code(grpcErr).String(), time.Since(start))
		h.logger.Error("Ledger handler: invocation failed",
			"function", function,
			"error", err.Error())
		return nil, grpcErr
	}

	resp, err := newResponse(payload)
	if err != nil {
		h.metrics.ObserveInvocation(function, codes.Internal.String(), time.Since(start))
		h.logger.Error("Ledger handler: failed to encode payload",
			"function", function,
			"error", err.Error())
		return nil, status.Error(codes.Internal, "internal server error")
	}

	h.metrics.ObserveInvocation(function, codes.OK.String(), time.Since(start))
	return resp, nil
}

func (h *Ledger) accountExists(ctx context.Context, args []string) (any, error) {
	if err := h.expectArgs(args, "accountId"); err != nil {
		return nil, err
	}
	return h.accounts.Exists(ctx, args[0])
}

func (h *Ledger) createAccount(ctx context.Context, args []string) (any, error) {
	if err := h.expectArgs(args, "account"); err != nil {
		return nil, err
	}
	account, err := decodeArg[model.Account](h, "account", args[0])
	if err != nil {
		return nil, err
	}

	if err := h.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return h.accounts.Read(ctx, account.ID)
}

func (h *Ledger) readAccount(ctx context.Context, args []string) (any, error) {
	if err := h.expectArgs(args, "accountId"); err != nil {
		return nil, err
	}
	return h.accounts.Read(ctx, args[0])
}

func (h *Ledger) updateAccount(ctx context.Context, args []string) (any, error) {
	if err := h.expectArgs(args, "account"); err != nil {
		return nil, err
	}
	patch, err := decodeArg[model.AccountPatch](h, "account", args[0])
	if err != nil {
		return nil, err
	}
	if patch.CertificateIDs != nil {
		return nil, model.NewErrInvalidArgument("certificateIds are written by certificate issuance")
	}
	return h.accounts.Update(ctx, patch)
}

func (h *Ledger) deleteAccount(ctx context.Context, args []string) (any, error) {
	if err := h.expectArgs(args, "accountId"); err != nil {
		return nil, err
	}
	return nil, h.accounts.Delete(ctx, args[0])
}

func (h *Ledger) courseExists(ctx context.Context, args []string) (any, error) {
	if err := h.expectArgs(args, "courseId"); err != nil {
		return nil, err
	}
	return h.courses.Exists(ctx, args[0])
}

func (h *Ledger) createCourse(ctx context.Context, args []string) (any, error) {
	if err := h.expectArgs(args, "course"); err != nil {
		return nil, err
	}
	course, err := decodeArg[model.Course](h, "course", args[0])
	if err != nil {
		return nil, err
	}

	if err := h.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	return h.courses.Read(ctx, course.ID)
}

func (h *Ledger) readCourse(ctx context.Context, args []string) (any, error) {
	if err := h.expectArgs(args, "courseId"); err != nil {
		return nil, err
	}
	return h.courses.Read(ctx, args[0])
}

func (h *Ledger) updateCourse(ctx context.Context, args []string) (any, error) {
	if err := h.expectArgs(args, "course"); err != nil {
		return nil, err
	}
	patch, err := decodeArg[model.CoursePatch](h, "course", args[0])
	if err != nil {
		return nil, err
	}
	return h.courses.Update(ctx, patch)
}

func (h *Ledger) deleteCourse(ctx context.Context, args []string) (any, error) {
	if err := h.expectArgs(args, "courseId"); err != nil {
		return nil, err
	}
	return nil, h.courses.Delete(ctx, args[0])
}

func (h *Ledger) enrollStudent(ctx context.Context, args []string) (any, error) {
	if err := h.expectArgs(args, "courseId", "studentId"); err != nil {
		return nil, err
	}
	return nil, h.courses.Enroll(ctx, args[0], args[1])
}

func (h *Ledger) disenrollStudent(ctx context.Context, args []string) (any, error) {
	if err := h.expectArgs(args, "courseId", "studentId"); err != nil {
		return nil, err
	}
	return nil, h.courses.Disenroll(ctx, args[0], args[1])
}

func (h *Ledger) certificateExists(ctx context.Context, args []string) (any, error) {
	if err := h.expectArgs(args, "certificateId"); err != nil {
		return nil, err
	}
	return h.certificates.Exists(ctx, args[0])
}

func (h *Ledger) readCertificate(ctx context.Context, args []string) (any, error) {
	if err := h.expectArgs(args, "certificateId"); err != nil {
		return nil, err
	}
	return h.certificates.Read(ctx, args[0])
}

func (h *Ledger) deleteCertificate(ctx context.Context, args []string) (any, error) {
	if err := h.expectArgs(args, "certificateId"); err != nil {
		return nil, err
	}
	return nil, h.certificates.Delete(ctx, args[0])
}

func (h *Ledger) issueCertificate(ctx context.Context, args []string) (any, error) {
	if err := h.expectArgs(args, "courseId", "studentId"); err != nil {
		return nil, err
	}
	return h.issuance.IssueCertificate(ctx, args[0], args[1])
}

func (h *Ledger) reconcileCertificate(ctx context.Context, args []string) (any, error) {
	if err := h.expectArgs(args, "certificateId"); err != nil {
		return nil, err
	}
	linked, err := h.issuance.ReconcileCertificate(ctx, args[0])
	if err != nil {
		return nil, err
	}
	return ReconcileResult{Linked: linked}, nil
}

// expectArgs checks the argument count and that every argument is set.
func (h *Ledger) expectArgs(args []string, names ...string) error {
	if len(args) != len(names) {
		return model.NewErrInvalidArgument("expected %d argument(s) (%s), got %d",
			len(names), strings.Join(names, ", "), len(args))
	}
	for i, name := range names {
		if err := h.validate.Var(strings.TrimSpace(args[i]), "required"); err != nil {
			return model.NewErrInvalidArgument("%s is required", name)
		}
	}
	return nil
}

// decodeArg parses a JSON argument strictly and validates it.
func decodeArg[T any](h *Ledger, name, raw string) (T, error) {
	var value T

	decoder := json.NewDecoder(bytes.NewReader([]byte(raw)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&value); err != nil {
		return value, model.NewErrInvalidArgument("%s is not valid JSON: %v", name, err)
	}

	if err := h.validate.Struct(value); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return value, model.NewErrInvalidArgument("%s: %s", name, describe(validationErrors))
		}
		return value, fmt.Errorf("failed to validate %s: %w", name, err)
	}

	return value, nil
}

func describe(validationErrors validator.ValidationErrors) string {
	parts := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func parseRequest(req *structpb.Struct) (string, []string, error) {
	fields := req.GetFields()

	function := fields[proto.FieldFunction].GetStringValue()
	if function == "" {
		return "", nil, errors.New("function is required")
	}

	var args []string
	if raw, ok := fields[proto.FieldArgs]; ok {
		list := raw.GetListValue()
		if list == nil {
			return "", nil, errors.New("args must be a list of strings")
		}
		for i, value := range list.GetValues() {
			s, ok := value.GetKind().(*structpb.Value_StringValue)
			if !ok {
				return "", nil, fmt.Errorf("args[%d] must be a string", i)
			}
			args = append(args, s.StringValue)
		}
	}

	return function, args, nil
}

func newResponse(payload any) (*structpb.Struct, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	value := &structpb.Value{}
	if err := protojson.Unmarshal(raw, value); err != nil {
		return nil, fmt.Errorf("failed to convert payload: %w", err)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		proto.FieldPayload: value,
	}}, nil
}
