package restapi

import "net/http"

// WithCORS reflects the Origin header back only when it is on the
// configured allow list. Preflight requests are answered here without
// reaching the router.
func (api *RestAPI) WithCORS(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(api.Config.Server.AllowedOrigins))
	for _, origin := range api.Config.Server.AllowedOrigins {
		allowed[origin] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Add("Vary", "Origin")

		if origin := r.Header.Get("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
