package serviceInfo

import "fmt"

type ServiceInfo string

var (
	SERVICE_NAME        ServiceInfo = "Genotyper Consensus Service"
	SERVICE_WELCOME     ServiceInfo = "Welcome to the Genotyper consensus & haplotype API!"
	SERVICE_DESCRIPTION ServiceInfo = "Protein alignment consensus calling and haplotype-pair explanation over per-sample variant summaries."

	SERVICE_ARTIFACT    ServiceInfo = "genotyper"
	SERVICE_TYPE_NO_VER ServiceInfo = ServiceInfo(fmt.Sprintf("org.genotyper:%s", SERVICE_ARTIFACT))
	SERVICE_ID          ServiceInfo = SERVICE_TYPE_NO_VER
)
