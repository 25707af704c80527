package domain

import "time"

// ServiceStatus represents the operational status of a service.
type ServiceStatus string

// Service statuses.
const (
	ServiceStatusOperational   ServiceStatus = "operational"
	ServiceStatusDegraded      ServiceStatus = "degraded"
	ServiceStatusPartialOutage ServiceStatus = "partial_outage"
	ServiceStatusMajorOutage   ServiceStatus = "major_outage"
	ServiceStatusMaintenance   ServiceStatus = "maintenance"
)

// IsValid checks if the service status is valid.
func (s ServiceStatus) IsValid() bool {
	switch s {
	case ServiceStatusOperational, ServiceStatusDegraded,
		ServiceStatusPartialOutage, ServiceStatusMajorOutage,
		ServiceStatusMaintenance:
		return true
	}
	return false
}

// ServiceType identifies the kind of probe a service represents.
type ServiceType string

// Service probe types.
const (
	ServiceTypeHTTP        ServiceType = "HTTP"
	ServiceTypeHTTPS       ServiceType = "HTTPS"
	ServiceTypeTCP         ServiceType = "TCP"
	ServiceTypeDNS         ServiceType = "DNS"
	ServiceTypeDocker      ServiceType = "DOCKER"
	ServiceTypeDatabase    ServiceType = "DATABASE"
	ServiceTypePing        ServiceType = "PING"
	ServiceTypeSSH         ServiceType = "SSH"
	ServiceTypeFTP         ServiceType = "FTP"
	ServiceTypeSMTP        ServiceType = "SMTP"
	ServiceTypeLDAP        ServiceType = "LDAP"
	ServiceTypeNTP         ServiceType = "NTP"
	ServiceTypeTelnet      ServiceType = "TELNET"
	ServiceTypeVPN         ServiceType = "VPN"
	ServiceTypeSNMP        ServiceType = "SNMP"
	ServiceTypeDHCP        ServiceType = "DHCP"
	ServiceTypeHTTPKeyword ServiceType = "HTTP_KEYWORD"
	ServiceTypeJSONQuery   ServiceType = "JSON_QUERY"
)

// IsValid checks if the service type is a known probe kind.
func (t ServiceType) IsValid() bool {
	switch t {
	case ServiceTypeHTTP, ServiceTypeHTTPS, ServiceTypeTCP, ServiceTypeDNS,
		ServiceTypeDocker, ServiceTypeDatabase, ServiceTypePing, ServiceTypeSSH,
		ServiceTypeFTP, ServiceTypeSMTP, ServiceTypeLDAP, ServiceTypeNTP,
		ServiceTypeTelnet, ServiceTypeVPN, ServiceTypeSNMP, ServiceTypeDHCP,
		ServiceTypeHTTPKeyword, ServiceTypeJSONQuery:
		return true
	}
	return false
}

// MaxHistoryPoints is the length of a service's rolling uptime window (days).
const MaxHistoryPoints = 90

// UptimePoint is one day's recorded status/latency sample.
type UptimePoint struct {
	Timestamp     time.Time     `json:"timestamp"`
	Status        ServiceStatus `json:"status"`
	LatencyMs     int           `json:"latency_ms"`
	IncidentTitle string        `json:"incident_title,omitempty"`
}

// Service represents a monitored endpoint shown on the status page.
type Service struct {
	ID                     string        `json:"id"`
	Name                   string        `json:"name"`
	Description            string        `json:"description,omitempty"`
	Type                   ServiceType   `json:"type"`
	URL                    string        `json:"url,omitempty"`
	Port                   int           `json:"port,omitempty"`
	Status                 ServiceStatus `json:"status"`
	UptimeHistory          []UptimePoint `json:"uptime_history"`
	CurrentLatencyMs       int           `json:"current_latency_ms"`
	SSLExpiryDays          *int          `json:"ssl_expiry_days,omitempty"`
	LastCheck              time.Time     `json:"last_check"`
	PubliclyDisplayDetails bool          `json:"publicly_display_details"`
}

// ServiceGroup is a named collection of services shown together.
// A service belongs to exactly one group; deleting a group removes
// every service it contains.
type ServiceGroup struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Services    []Service `json:"services"`
}
