package proto

// Ledger function names accepted by Invoke.
const (
	FunctionAccountExists        = "AccountExists"
	FunctionCreateAccount        = "CreateAccount"
	FunctionReadAccount          = "ReadAccount"
	FunctionUpdateAccount        = "UpdateAccount"
	FunctionDeleteAccount        = "DeleteAccount"
	FunctionCourseExists         = "CourseExists"
	FunctionCreateCourse         = "CreateCourse"
	FunctionReadCourse           = "ReadCourse"
	FunctionUpdateCourse         = "UpdateCourse"
	FunctionDeleteCourse         = "DeleteCourse"
	FunctionEnrollStudent        = "EnrollStudent"
	FunctionDisenrollStudent     = "DisenrollStudent"
	FunctionCertificateExists    = "CertificateExists"
	FunctionReadCertificate      = "ReadCertificate"
	FunctionDeleteCertificate    = "DeleteCertificate"
	FunctionIssueCertificate     = "IssueCertificate"
	FunctionReconcileCertificate = "ReconcileCertificate"
)
