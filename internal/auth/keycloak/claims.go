package keycloak

import (
	"encoding/json"
	"sort"
	"strings"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// DecodeUnverified decodifica el payload de un access token SIN verificar
// la firma. Solo es aceptable para tokens recién obtenidos del provider en
// una llamada server-to-server; los tokens que llegan del browser se
// validan por el path separado del paquete bearer.
func DecodeUnverified(accessToken string) (jwtv5.MapClaims, error) {
	claims := jwtv5.MapClaims{}
	if _, _, err := jwtv5.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Username extrae preferred_username con fallback.
func Username(claims jwtv5.MapClaims) string {
	if s, _ := claims["preferred_username"].(string); s != "" {
		return s
	}
	return "unknown"
}

// roleSource es una estrategia de extracción de roles. Cada una es
// individualmente falible: ante un claim ausente o malformado retorna nil
// en vez de fallar la extracción completa.
type roleSource func(claims jwtv5.MapClaims) []string

var roleSources = []roleSource{
	directRoles,
	realmAccessRoles,
	resourceAccessRoles,
}

// ExtractRoles une los roles de todas las fuentes, deduplicando
// case-sensitive y preservando orden de aparición.
func ExtractRoles(claims jwtv5.MapClaims) []string {
	var roles []string
	seen := make(map[string]struct{})
	for _, src := range roleSources {
		for _, r := range src(claims) {
			if r == "" {
				continue
			}
			if _, dup := seen[r]; dup {
				continue
			}
			seen[r] = struct{}{}
			roles = append(roles, r)
		}
	}
	return roles
}

// HasAdmin chequea membresía de "admin" case-insensitive.
func HasAdmin(roles []string) bool {
	for _, r := range roles {
		if strings.EqualFold(r, "admin") {
			return true
		}
	}
	return false
}

// directRoles lee un claim plano "roles" (presente si el realm tiene un
// mapper configurado).
func directRoles(claims jwtv5.MapClaims) []string {
	return stringSlice(claims["roles"])
}

// realmAccessRoles lee realm_access.roles.
func realmAccessRoles(claims jwtv5.MapClaims) []string {
	obj := claimObject(claims["realm_access"])
	if obj == nil {
		return nil
	}
	return stringSlice(obj["roles"])
}

// resourceAccessRoles recorre resource_access.<client>.roles para cada
// cliente downstream, en orden alfabético de cliente para que la unión
// resultante sea estable entre tokens idénticos.
func resourceAccessRoles(claims jwtv5.MapClaims) []string {
	obj := claimObject(claims["resource_access"])
	if obj == nil {
		return nil
	}
	clients := make([]string, 0, len(obj))
	for k := range obj {
		clients = append(clients, k)
	}
	sort.Strings(clients)

	var out []string
	for _, k := range clients {
		client := claimObject(obj[k])
		if client == nil {
			continue
		}
		out = append(out, stringSlice(client["roles"])...)
	}
	return out
}

// claimObject normaliza un valor de claim a map. Acepta tanto el objeto
// ya decodificado (payload JSON normal) como un string JSON embebido
// (forma en que algunos stacks aplanan claims anidados). Malformado → nil.
func claimObject(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(t), &m); err != nil {
			return nil
		}
		return m
	default:
		return nil
	}
}

func stringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		// también aceptar []string directo (tests, claims sintéticos)
		if ss, ok := v.([]string); ok {
			return ss
		}
		return nil
	}
	var out []string
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
