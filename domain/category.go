package domain

import (
	"time"
)

// CREATE TABLE public.categorias (
//     categoria_id        BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
//     categoria_nombre    VARCHAR(100) NOT NULL,
//     descripcion         TEXT,
//     imagen              TEXT,
//     created_at          TIMESTAMPTZ DEFAULT NOW(),
//     updated_at          TIMESTAMPTZ DEFAULT NOW()
// );

type Category struct {
	CategoriaID     uint64    `gorm:"primaryKey;column:categoria_id;autoIncrement" json:"CategoriaID"`
	CategoriaNombre string    `gorm:"column:categoria_nombre;type:varchar(100);not null" json:"CategoriaNombre"`
	Descripcion     string    `gorm:"column:descripcion;type:text" json:"Descripcion"`
	Imagen          string    `gorm:"column:imagen;type:text" json:"Imagen"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"CreatedAt"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"UpdatedAt"`
}

func (Category) TableName() string {
	return "categorias"
}
