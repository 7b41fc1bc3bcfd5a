package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// UintArray - пользовательский тип для хранения набора ID в JSONB.
// Используется для нормализованного множества выбранных вариантов
// в ответах на multi_select вопросы.
type UintArray []uint

// Scan реализует интерфейс sql.Scanner для UintArray.
// Используется GORM для чтения JSONB данных из базы.
func (a *UintArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*a = UintArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*a = UintArray{}
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Value реализует интерфейс driver.Valuer для UintArray.
// Используется GORM для записи UintArray в JSONB в базе.
func (a UintArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(a)
}
