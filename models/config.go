package models

type Config struct {
	Debug bool `yaml:"debug" envconfig:"GENOTYPER_DEBUG"`

	Api struct {
		Url  string `yaml:"url" envconfig:"GENOTYPER_PUBLIC_URL"`
		Port string `yaml:"port" envconfig:"GENOTYPER_API_INTERNAL_PORT" default:"5000"`
	} `yaml:"api"`

	Elasticsearch struct {
		Url         string `yaml:"url" envconfig:"GENOTYPER_ES_URL"`
		Username    string `yaml:"username" envconfig:"GENOTYPER_ES_USERNAME"`
		Password    string `yaml:"password" envconfig:"GENOTYPER_ES_PASSWORD"`
		IndexPrefix string `yaml:"indexPrefix" envconfig:"GENOTYPER_ES_INDEX_PREFIX" default:"genotyper"`
		MaxHits     int    `yaml:"maxHits" envconfig:"GENOTYPER_ES_MAX_HITS" default:"10000"`
	} `yaml:"elasticsearch"`

	// default thresholds, overridable per request
	Engine struct {
		MinCoverage            float64 `yaml:"minCoverage" envconfig:"GENOTYPER_MIN_COVERAGE" default:"0"`
		MinVariantPercent      float64 `yaml:"minVariantPercent" envconfig:"GENOTYPER_MIN_VARIANT_PERCENT" default:"0"`
		MinVariantReadCount    int     `yaml:"minVariantReadCount" envconfig:"GENOTYPER_MIN_VARIANT_READ_COUNT" default:"0"`
		MaxNonCoveredPositions int     `yaml:"maxNonCoveredPositions" envconfig:"GENOTYPER_MAX_NON_COVERED_POSITIONS" default:"-1"` // negative = unlimited
		MinPctForHaplotype     float64 `yaml:"minPctForHaplotype" envconfig:"GENOTYPER_MIN_PCT_FOR_HAPLOTYPE" default:"0"`
		MinPctExplained        float64 `yaml:"minPctExplained" envconfig:"GENOTYPER_MIN_PCT_EXPLAINED" default:"0"`
		PctDifferentialFilter  float64 `yaml:"pctDifferentialFilter" envconfig:"GENOTYPER_PCT_DIFFERENTIAL_FILTER" default:"10"`
	} `yaml:"engine"`

	Palette struct {
		SynonymousColor    string  `yaml:"synonymousColor" envconfig:"GENOTYPER_COLOR_SYNONYMOUS" default:"#0000FF"`
		NonSynonymousColor string  `yaml:"nonSynonymousColor" envconfig:"GENOTYPER_COLOR_NONSYNONYMOUS" default:"#FF0000"`
		FrameshiftColor    string  `yaml:"frameshiftColor" envconfig:"GENOTYPER_COLOR_FRAMESHIFT" default:"#FF9900"`
		GradientMinDepth   float64 `yaml:"gradientMinDepth" envconfig:"GENOTYPER_GRADIENT_MIN_DEPTH" default:"0"`
		GradientMaxDepth   float64 `yaml:"gradientMaxDepth" envconfig:"GENOTYPER_GRADIENT_MAX_DEPTH" default:"0"` // 0 disables the gradient
		GradientLowColor   string  `yaml:"gradientLowColor" envconfig:"GENOTYPER_GRADIENT_LOW_COLOR" default:"#DDDDDD"`
	} `yaml:"palette"`

	Cache struct {
		TtlMinutes          int `yaml:"ttlMinutes" envconfig:"GENOTYPER_CACHE_TTL_MINUTES" default:"30"`
		PurgeIntervalMinute int `yaml:"purgeIntervalMinutes" envconfig:"GENOTYPER_CACHE_PURGE_INTERVAL_MINUTES" default:"5"`
	} `yaml:"cache"`

	Log struct {
		File        string `yaml:"file" envconfig:"GENOTYPER_LOG_FILE"`
		Environment string `yaml:"environment" envconfig:"GENOTYPER_ENVIRONMENT" default:"local"`
	} `yaml:"log"`

	SemVer         string `yaml:"semver" envconfig:"GENOTYPER_SERVICE_SEMVER" default:"0.1.0"`
	ServiceContact string `yaml:"serviceContact" envconfig:"GENOTYPER_SERVICE_CONTACT"`
}
