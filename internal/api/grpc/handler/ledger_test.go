package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/certledger/internal/api/grpc/proto"
	"github.com/dtroode/certledger/internal/events"
	"github.com/dtroode/certledger/internal/metrics"
	"github.com/dtroode/certledger/internal/model"
	"github.com/dtroode/certledger/internal/service"
	"github.com/dtroode/certledger/internal/storage/memory"
	"github.com/dtroode/certledger/internal/testutil"
)

// MockIssuanceService mocks the IssuanceService interface
type MockIssuanceService struct {
	mock.Mock
}

func (m *MockIssuanceService) IssueCertificate(ctx context.Context, courseID, studentID string) (string, error) {
	args := m.Called(ctx, courseID, studentID)
	return args.String(0), args.Error(1)
}

func (m *MockIssuanceService) ReconcileCertificate(ctx context.Context, certificateID string) (bool, error) {
	args := m.Called(ctx, certificateID)
	return args.Bool(0), args.Error(1)
}

func newTestLedger(t *testing.T) (*Ledger, *metrics.Metrics) {
	t.Helper()

	store := memory.New()
	lg := testutil.MakeNoopLogger()
	m := metrics.New(prometheus.NewRegistry())
	accounts := service.NewAccount(store, lg)
	courses := service.NewCourse(store, accounts, lg)
	certificates := service.NewCertificate(store, lg)
	issuance := service.NewIssuance(courses, accounts, certificates, events.Noop{}, m, nil, lg)

	return NewLedger(accounts, courses, certificates, issuance, m, lg), m
}

func invoke(t *testing.T, h *Ledger, function string, args ...string) (*structpb.Value, error) {
	t.Helper()
	resp, err := h.Invoke(context.Background(), proto.NewInvokeRequest(function, args...))
	if err != nil {
		return nil, err
	}
	return resp.GetFields()[proto.FieldPayload], nil
}

func mustInvoke(t *testing.T, h *Ledger, function string, args ...string) *structpb.Value {
	t.Helper()
	payload, err := invoke(t, h, function, args...)
	require.NoError(t, err, function)
	return payload
}

func requireCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, status.Code(err), err.Error())
}

func TestLedger_IssuanceFlow(t *testing.T) {
	t.Parallel()

	h, m := newTestLedger(t)

	mustInvoke(t, h, proto.FunctionCreateAccount, `{"id":"A","name":"Instructor","email":"a@example.com","publicKey":"pk-a"}`)
	mustInvoke(t, h, proto.FunctionCreateAccount, `{"id":"C","name":"Student","email":"c@example.com","publicKey":"pk-c"}`)

	course := mustInvoke(t, h, proto.FunctionCreateCourse, `{"id":"B","name":"Go","durationUnits":40,"instructorId":"A"}`)
	assert.Equal(t, "A", course.GetStructValue().GetFields()["instructorId"].GetStringValue())
	assert.Empty(t, course.GetStructValue().GetFields()["enrolledStudentIds"].GetListValue().GetValues())

	_, err := invoke(t, h, proto.FunctionIssueCertificate, "B", "C")
	requireCode(t, err, codes.FailedPrecondition)

	enrolled := mustInvoke(t, h, proto.FunctionEnrollStudent, "B", "C")
	_, isNull := enrolled.GetKind().(*structpb.Value_NullValue)
	assert.True(t, isNull)

	_, err = invoke(t, h, proto.FunctionEnrollStudent, "B", "C")
	requireCode(t, err, codes.AlreadyExists)

	certificateID := mustInvoke(t, h, proto.FunctionIssueCertificate, "B", "C").GetStringValue()
	require.NotEmpty(t, certificateID)

	certificate := mustInvoke(t, h, proto.FunctionReadCertificate, certificateID).GetStructValue().GetFields()
	assert.Equal(t, "C", certificate["studentId"].GetStringValue())
	assert.Equal(t, "A", certificate["instructorId"].GetStringValue())
	assert.Equal(t, "B", certificate["courseId"].GetStringValue())
	assert.Equal(t, 40.0, certificate["durationUnits"].GetNumberValue())
	assert.NotEmpty(t, certificate["completionTimestamp"].GetStringValue())

	student := mustInvoke(t, h, proto.FunctionReadAccount, "C").GetStructValue().GetFields()
	ids := student["certificateIds"].GetListValue().GetValues()
	require.Len(t, ids, 1)
	assert.Equal(t, certificateID, ids[0].GetStringValue())

	reconciled := mustInvoke(t, h, proto.FunctionReconcileCertificate, certificateID)
	assert.False(t, reconciled.GetStructValue().GetFields()["linked"].GetBoolValue())

	assert.True(t, mustInvoke(t, h, proto.FunctionCertificateExists, certificateID).GetBoolValue())
	mustInvoke(t, h, proto.FunctionDisenrollStudent, "B", "C")
	mustInvoke(t, h, proto.FunctionDeleteCertificate, certificateID)
	assert.False(t, mustInvoke(t, h, proto.FunctionCertificateExists, certificateID).GetBoolValue())

	assert.Equal(t, 1.0, promtest.ToFloat64(m.CertificatesIssued))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Invocations.WithLabelValues(proto.FunctionIssueCertificate, codes.OK.String())))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Invocations.WithLabelValues(proto.FunctionIssueCertificate, codes.FailedPrecondition.String())))
}

func TestLedger_AccountAndCourseCRUD(t *testing.T) {
	t.Parallel()

	h, _ := newTestLedger(t)

	assert.False(t, mustInvoke(t, h, proto.FunctionAccountExists, "A").GetBoolValue())
	mustInvoke(t, h, proto.FunctionCreateAccount, `{"id":"A","name":"Ann"}`)
	assert.True(t, mustInvoke(t, h, proto.FunctionAccountExists, "A").GetBoolValue())

	updated := mustInvoke(t, h, proto.FunctionUpdateAccount, `{"id":"A","email":"ann@example.com"}`).GetStructValue().GetFields()
	assert.Equal(t, "Ann", updated["name"].GetStringValue())
	assert.Equal(t, "ann@example.com", updated["email"].GetStringValue())

	mustInvoke(t, h, proto.FunctionCreateAccount, `{"id":"J","name":"Joe"}`)
	mustInvoke(t, h, proto.FunctionCreateCourse, `{"id":"B","name":"Go","durationUnits":4,"instructorId":"A"}`)
	assert.True(t, mustInvoke(t, h, proto.FunctionCourseExists, "B").GetBoolValue())

	course := mustInvoke(t, h, proto.FunctionUpdateCourse, `{"id":"B","instructorId":"J","durationUnits":8}`).GetStructValue().GetFields()
	assert.Equal(t, "J", course["instructorId"].GetStringValue())
	assert.Equal(t, 8.0, course["durationUnits"].GetNumberValue())
	assert.Equal(t, "Go", mustInvoke(t, h, proto.FunctionReadCourse, "B").GetStructValue().GetFields()["name"].GetStringValue())

	mustInvoke(t, h, proto.FunctionDeleteCourse, "B")
	_, err := invoke(t, h, proto.FunctionReadCourse, "B")
	requireCode(t, err, codes.NotFound)

	mustInvoke(t, h, proto.FunctionDeleteAccount, "A")
	_, err = invoke(t, h, proto.FunctionDeleteAccount, "A")
	requireCode(t, err, codes.NotFound)
}

func TestLedger_InvalidInput(t *testing.T) {
	t.Parallel()

	h, _ := newTestLedger(t)
	mustInvoke(t, h, proto.FunctionCreateAccount, `{"id":"A"}`)

	tests := []struct {
		name     string
		function string
		args     []string
		wantCode codes.Code
	}{
		{name: "unknown function", function: "CreateCertificate", args: []string{"{}"}, wantCode: codes.Unimplemented},
		{name: "missing argument", function: proto.FunctionReadAccount, wantCode: codes.InvalidArgument},
		{name: "too many arguments", function: proto.FunctionEnrollStudent, args: []string{"B", "C", "D"}, wantCode: codes.InvalidArgument},
		{name: "blank id", function: proto.FunctionReadCourse, args: []string{"  "}, wantCode: codes.InvalidArgument},
		{name: "malformed json", function: proto.FunctionCreateAccount, args: []string{`{"id":`}, wantCode: codes.InvalidArgument},
		{name: "unknown field", function: proto.FunctionCreateAccount, args: []string{`{"id":"X","role":"admin"}`}, wantCode: codes.InvalidArgument},
		{name: "account without id", function: proto.FunctionCreateAccount, args: []string{`{"name":"X"}`}, wantCode: codes.InvalidArgument},
		{name: "account with certificates", function: proto.FunctionCreateAccount, args: []string{`{"id":"X","certificateIds":["c"]}`}, wantCode: codes.InvalidArgument},
		{name: "patch certificates", function: proto.FunctionUpdateAccount, args: []string{`{"id":"A","certificateIds":[]}`}, wantCode: codes.InvalidArgument},
		{name: "course zero duration", function: proto.FunctionCreateCourse, args: []string{`{"id":"B","instructorId":"A","durationUnits":0}`}, wantCode: codes.InvalidArgument},
		{name: "course with roster", function: proto.FunctionCreateCourse, args: []string{`{"id":"B","instructorId":"A","durationUnits":1,"enrolledStudentIds":["A"]}`}, wantCode: codes.InvalidArgument},
		{name: "course patch negative duration", function: proto.FunctionUpdateCourse, args: []string{`{"id":"B","durationUnits":-3}`}, wantCode: codes.InvalidArgument},
		{name: "course unknown instructor", function: proto.FunctionCreateCourse, args: []string{`{"id":"B","instructorId":"ghost","durationUnits":1}`}, wantCode: codes.FailedPrecondition},
		{name: "duplicate account", function: proto.FunctionCreateAccount, args: []string{`{"id":"A"}`}, wantCode: codes.AlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := invoke(t, h, tt.function, tt.args...)
			requireCode(t, err, tt.wantCode)
		})
	}
}

func TestLedger_MalformedRequest(t *testing.T) {
	t.Parallel()

	h, _ := newTestLedger(t)

	tests := []struct {
		name string
		req  *structpb.Struct
	}{
		{
			name: "no function",
			req:  &structpb.Struct{Fields: map[string]*structpb.Value{}},
		},
		{
			name: "args not a list",
			req: &structpb.Struct{Fields: map[string]*structpb.Value{
				proto.FieldFunction: structpb.NewStringValue(proto.FunctionReadAccount),
				proto.FieldArgs:     structpb.NewStringValue("A"),
			}},
		},
		{
			name: "non-string arg",
			req: &structpb.Struct{Fields: map[string]*structpb.Value{
				proto.FieldFunction: structpb.NewStringValue(proto.FunctionReadAccount),
				proto.FieldArgs: structpb.NewListValue(&structpb.ListValue{Values: []*structpb.Value{
					structpb.NewNumberValue(1),
				}}),
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Invoke(context.Background(), tt.req)
			requireCode(t, err, codes.InvalidArgument)
		})
	}
}

func TestLedger_IncompleteIssuance(t *testing.T) {
	t.Parallel()

	issuance := &MockIssuanceService{}
	issuance.On("IssueCertificate", mock.Anything, "B", "C").Return("", &model.IncompleteIssuanceError{
		CertificateID: "cert-1",
		StudentID:     "C",
		Err:           errors.New("write rejected"),
	})
	issuance.On("ReconcileCertificate", mock.Anything, "cert-1").Return(true, nil)

	h := NewLedger(nil, nil, nil, issuance, nil, testutil.MakeNoopLogger())

	_, err := invoke(t, h, proto.FunctionIssueCertificate, "B", "C")
	requireCode(t, err, codes.Aborted)
	assert.Contains(t, status.Convert(err).Message(), "cert-1")

	payload := mustInvoke(t, h, proto.FunctionReconcileCertificate, "cert-1")
	assert.True(t, payload.GetStructValue().GetFields()["linked"].GetBoolValue())
	issuance.AssertExpectations(t)
}
