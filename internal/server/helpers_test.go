package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func addNode(t *testing.T, host, id string) {
	t.Helper()
	resp, err := http.Post(host+"/nodes", "application/json", strings.NewReader(`{"id":"`+id+`","label":"`+id+`"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}
