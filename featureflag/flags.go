package featureflag

type Flag string

const (
	FlagDisableSelfTest    Flag = "DISABLE_SELF_TEST"
	FlagDisableDomainStats Flag = "DISABLE_DOMAIN_STATS"
	FlagDisablePprof       Flag = "DISABLE_PPROF"
)
