package soap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bmat321/gohris/storage"
)

func TestEscapeCoversAllSpecials(t *testing.T) {
	in := `a<b>c&d'e"f`
	out := Escape(in)

	assert.Equal(t, "a&lt;b&gt;c&amp;d&apos;e&quot;f", out)
	for _, forbidden := range []string{"<b", ">c", "'e", `"f`} {
		assert.NotContains(t, out, forbidden)
	}
}

func TestBuildEnvelopeEscapesValues(t *testing.T) {
	env := buildEnvelope(DefaultNamespace, "loginUser", map[string]string{
		"email":    `x<script>&"y"`,
		"password": "p'q",
	}, map[string]string{"token": "a&b"})

	// No unescaped specials outside entity form: strip the markup
	// structure and check the interpolated values.
	assert.Contains(t, env, "<hris:email>x&lt;script&gt;&amp;&quot;y&quot;</hris:email>")
	assert.Contains(t, env, "<hris:password>p&apos;q</hris:password>")
	assert.Contains(t, env, "<hris:token>a&amp;b</hris:token>")
	assert.NotContains(t, env, "<script>")

	// The envelope must itself be well-formed XML.
	doc, err := parseDocument(strings.NewReader(env))
	require.NoError(t, err)
	email, ok := doc.FindText("email")
	require.True(t, ok)
	assert.Equal(t, `x<script>&"y"`, email)
}

func TestCallRejectsInvalidNames(t *testing.T) {
	c, err := NewClient(Config{Endpoint: "http://localhost:0"})
	require.NoError(t, err)

	_, err = c.Call(context.Background(), "login user", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = c.Call(context.Background(), "loginUser", map[string]string{"bad<key": "v"}, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func soapResponse(inner string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` +
		`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">` +
		`<soap:Body>` + inner + `</soap:Body></soap:Envelope>`
}

func newLoginServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		body, _ := io.ReadAll(r.Body)

		assert.Equal(t, "loginUser", r.Header.Get("SOAPAction"))
		assert.Contains(t, r.Header.Get("Content-Type"), "text/xml")

		if strings.Contains(string(body), "<hris:password>admin123</hris:password>") {
			fmt.Fprint(w, soapResponse(`<loginUserResponse>`+
				`<id>a1</id><firstName>Ada</firstName><lastName>Admin</lastName>`+
				`<email>admin@hris.com</email><role>Admin</role>`+
				`<department>Management</department><status>active</status>`+
				`<token>soap-session-1</token></loginUserResponse>`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, soapResponse(`<soap:Fault><faultcode>Client</faultcode>`+
			`<faultstring>Invalid email or password</faultstring></soap:Fault>`))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestLoginUserSuccessPersistsSession(t *testing.T) {
	ctx := context.Background()
	srv, _ := newLoginServer(t)
	store := storage.NewMemory()

	c, err := NewClient(Config{Endpoint: srv.URL, Tokens: store})
	require.NoError(t, err)

	user, err := c.LoginUser(ctx, "admin@hris.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "a1", user.ID)
	assert.Equal(t, "soap-session-1", user.Token)

	tok, err := store.Get(ctx, storage.KeySOAPToken)
	require.NoError(t, err)
	assert.Equal(t, "soap-session-1", tok)

	serialized, err := store.Get(ctx, storage.KeySOAPUser)
	require.NoError(t, err)
	assert.Contains(t, serialized, `"email":"admin@hris.com"`)
}

func TestLoginUserFaultSurfacesMessage(t *testing.T) {
	ctx := context.Background()
	srv, _ := newLoginServer(t)
	store := storage.NewMemory()

	c, err := NewClient(Config{Endpoint: srv.URL, Tokens: store})
	require.NoError(t, err)

	_, err = c.LoginUser(ctx, "admin@hris.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteFault)

	var fault *Fault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, "Invalid email or password", fault.Message)

	// No session material written on fault.
	_, err = store.Get(ctx, storage.KeySOAPToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLoginUserMissingFieldIsShapeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// token element absent
		fmt.Fprint(w, soapResponse(`<loginUserResponse><id>a1</id>`+
			`<firstName>Ada</firstName><email>admin@hris.com</email></loginUserResponse>`))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{Endpoint: srv.URL})
	require.NoError(t, err)

	_, err = c.LoginUser(context.Background(), "admin@hris.com", "admin123")
	assert.ErrorIs(t, err, ErrInvalidResponseShape)
	assert.Contains(t, err.Error(), "token")
}

func TestCallTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c, err := NewClient(Config{Endpoint: srv.URL})
	require.NoError(t, err)

	_, err = c.Call(context.Background(), "loginUser", nil, nil)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestCallGarbageBodyIsShapeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"this": "is json"}`)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{Endpoint: srv.URL})
	require.NoError(t, err)

	_, err = c.Call(context.Background(), "loginUser", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidResponseShape)
}

func TestAuthenticatedCallInjectsStoredToken(t *testing.T) {
	ctx := context.Background()

	var sawToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if i := strings.Index(string(body), "<hris:token>"); i >= 0 {
			rest := string(body)[i+len("<hris:token>"):]
			sawToken = rest[:strings.Index(rest, "</hris:token>")]
		}
		fmt.Fprint(w, soapResponse(`<listLeavesResponse><count>0</count></listLeavesResponse>`))
	}))
	t.Cleanup(srv.Close)

	store := storage.NewMemory()
	require.NoError(t, store.Set(ctx, storage.KeySOAPToken, "soap-session-1"))

	c, err := NewClient(Config{Endpoint: srv.URL, Tokens: store})
	require.NoError(t, err)

	_, err = c.AuthenticatedCall(ctx, "listLeaves", map[string]string{"status": "pending"})
	require.NoError(t, err)
	assert.Equal(t, "soap-session-1", sawToken)
}

func TestValidateToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), "<hris:token>live</hris:token>") {
			fmt.Fprint(w, soapResponse(`<validateTokenResponse><valid>true</valid></validateTokenResponse>`))
			return
		}
		fmt.Fprint(w, soapResponse(`<validateTokenResponse><valid>false</valid></validateTokenResponse>`))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{Endpoint: srv.URL})
	require.NoError(t, err)

	ok, err := c.ValidateToken(context.Background(), "live")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.ValidateToken(context.Background(), "stale")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogoutClearsSOAPNamespace(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, store.Set(ctx, storage.KeySOAPToken, "tok"))
	require.NoError(t, store.Set(ctx, storage.KeySOAPUser, "{}"))

	c, err := NewClient(Config{Endpoint: "http://localhost:0", Tokens: store})
	require.NoError(t, err)
	require.NoError(t, c.Logout(ctx))

	for _, k := range []string{storage.KeySOAPToken, storage.KeySOAPUser} {
		_, err := store.Get(ctx, k)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	}
}
