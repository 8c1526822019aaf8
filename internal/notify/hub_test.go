package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversToRecipientOnly(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	hub := NewHub(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	condo := uuid.New()
	owner := models.TenantContext{CondominiumID: condo, ProfileID: uuid.New(), Role: models.RoleOwner}
	neighbour := models.TenantContext{CondominiumID: condo, ProfileID: uuid.New(), Role: models.RoleOwner}
	tenants := map[string]models.TenantContext{"owner": owner, "neighbour": neighbour}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, tenants[r.URL.Query().Get("as")])
	}))
	defer server.Close()

	dial := func(as string) *websocket.Conn {
		url := "ws" + strings.TrimPrefix(server.URL, "http") + "?as=" + as
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		return conn
	}
	ownerConn := dial("owner")
	defer ownerConn.Close()
	neighbourConn := dial("neighbour")
	defer neighbourConn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	// GIVEN a notification addressed to the owner
	recipient := owner.ProfileID
	hub.Publish(models.Notification{ID: uuid.New(), CondominiumID: condo, RecipientProfileID: &recipient, Kind: models.NotificationPaymentApproved, Title: "Payment approved"})

	// THEN only the owner receives it
	var got models.Notification
	ownerConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, ownerConn.ReadJSON(&got))
	assert.Equal(t, models.NotificationPaymentApproved, got.Kind)

	neighbourConn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := neighbourConn.ReadMessage()
	assert.Error(t, err)
}

func TestSubscriberAccepts(t *testing.T) {
	condo := uuid.New()
	admin := subscriber{tenant: models.TenantContext{CondominiumID: condo, ProfileID: uuid.New(), Role: models.RoleAdmin}}
	owner := subscriber{tenant: models.TenantContext{CondominiumID: condo, ProfileID: uuid.New(), Role: models.RoleOwner}}

	adminFeed := models.Notification{CondominiumID: condo}
	assert.True(t, admin.accepts(adminFeed))
	assert.False(t, owner.accepts(adminFeed))

	other := models.Notification{CondominiumID: uuid.New()}
	assert.False(t, admin.accepts(other))
}
