package model

import (
	"time"
)

// Panel is a provisioned server instance owned by exactly one user. The
// identifiers are assigned by the external provisioning service; the
// (UserID, ServerID) pair is the durable identity checked on deletion.
type Panel struct {
	ServerID  int64          `json:"serverId" bson:"serverid"`
	UserID    int64          `json:"userId" bson:"userid"`
	Username  string         `json:"username" bson:"username"`
	Extra     map[string]any `json:"extra,omitempty" bson:"extra,omitempty"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdat"`
}
