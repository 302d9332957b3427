// Package repository define los contratos de persistencia del dominio.
//
// Las implementaciones concretas viven en internal/store/adapters/ (pg, sqlite).
//
//	┌─────────────────────────────────────────────┐
//	│       Services / Middlewares                │
//	└─────────────────────────────────────────────┘
//	                     │
//	                     ▼
//	┌─────────────────────────────────────────────┐
//	│   domain/repository (interfaces)            │
//	│   UserRepository, DiaryRepository,          │
//	│   DenylistRepository                        │
//	└─────────────────────────────────────────────┘
//	                     │
//	           ┌─────────┴─────────┐
//	           ▼                   ▼
//	    ┌─────────────┐     ┌─────────────┐
//	    │ adapters/pg │     │adapters/    │
//	    │  (pgxpool)  │     │  sqlite     │
//	    └─────────────┘     └─────────────┘
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - Errores de dominio están en errors.go
//   - Los adapters traducen violaciones de unicidad a ErrConflict
package repository
