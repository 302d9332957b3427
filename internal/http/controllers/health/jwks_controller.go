package health

import "net/http"

// JWKSController sirve la clave pública de firma.
type JWKSController struct {
	doc []byte
}

// NewJWKSController recibe el documento JWKS ya serializado (la clave no rota en caliente).
func NewJWKSController(doc []byte) *JWKSController {
	return &JWKSController{doc: doc}
}

// GetJWKS maneja GET /.well-known/jwks.json
func (c *JWKSController) GetJWKS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(c.doc)
}
