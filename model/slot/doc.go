// Package slot defines GPU slot status, slot log entries and task requests
// shared by the registry, the supervisor and the service façade.
package slot
