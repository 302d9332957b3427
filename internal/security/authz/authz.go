// Package authz contiene los chequeos de autorización por recurso.
package authz

import "errors"

// ErrForbidden: la identidad está autenticada pero no es dueña del recurso.
var ErrForbidden = errors.New("forbidden: not the resource owner")

// CheckOwnership compara el dueño del recurso con la identidad resuelta.
// Un identityID vacío nunca es dueño.
func CheckOwnership(ownerID, identityID string) error {
	if identityID == "" || ownerID != identityID {
		return ErrForbidden
	}
	return nil
}
