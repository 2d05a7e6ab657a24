// Package domain defines the core business entities and errors for menu
// processing: sessions, menu items, and the failure taxonomy shared by the
// pipeline stages.
package domain
