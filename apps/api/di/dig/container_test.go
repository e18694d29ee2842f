package dig_container

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/NathJo212/Overd-OSE-sub001/apps/api/echo"
	"github.com/NathJo212/Overd-OSE-sub001/core/internship"
	"github.com/NathJo212/Overd-OSE-sub001/core/yearctx"
	eventsvc "github.com/NathJo212/Overd-OSE-sub001/services/events"
)

func TestNew_memory(t *testing.T) {
	t.Setenv("ENV", "TEST")
	t.Setenv("TEST_DATABASE_ENGINE", memoryEngine)
	t.Setenv("TEST_EVENTS_AMQPURL", "")

	c := New()
	err := c.Invoke(func(
		repo internship.Repository,
		db *sqlx.DB,
		publisher *eventsvc.AMQPPublisher,
		provider *yearctx.Provider,
		server *echoapi.Server,
	) {
		assert.NotNil(t, repo)
		assert.Nil(t, db)
		assert.Nil(t, publisher)
		assert.NotNil(t, provider)
		assert.NotNil(t, server)
	})
	require.NoError(t, err)
}
