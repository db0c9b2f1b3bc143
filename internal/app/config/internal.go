package config

type InternalConfig struct {
	App   App
	JWT   JWT
	Minio AppMinio
}

type App struct {
	Env                        string
	Port                       string
	Version                    string
	Address                    string
	Timezone                   string
	EndpointPrefix             string
	MaxRequests                int
	ShutdownTimeoutInSeconds   int
	MaxTimeRequestsPerSeconds  int
	RequestBodyLimitInMegabyte int

	// TemplateSourceDir is where the scale definition files live.
	TemplateSourceDir string
	// RemoteLinkBaseURL prefixes the patient-facing /take/{token} links.
	RemoteLinkBaseURL string
	// RemoteTokenTTLInMinutes is the default validity of a remote link when
	// the issuing request does not specify one.
	RemoteTokenTTLInMinutes int
	// SuperadminAPIKeyHash is the bcrypt hash the operational endpoints
	// (template reload, migration) authenticate against.
	SuperadminAPIKeyHash      string
	SuperadminAPIKeyRateLimit int
	// ReportFontPath is the TTF the PDF renderer embeds.
	ReportFontPath string
}

type JWT struct {
	Secret        string
	ExpTimeInHour int
}

type AppMinio struct {
	BucketName string
}
