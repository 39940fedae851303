package conflict

import "sort"

// HasMeaningfulDifference сообщает, отличаются ли снимки семантически
// хотя бы в одном поле. Чистый шум представления (порядок ключей, формат
// чисел) различием не считается.
func HasMeaningfulDifference(local, remote Snapshot) bool {
	return len(ConflictingFields(local, remote)) > 0
}

// ConflictingFields возвращает имена полей верхнего уровня, значения которых
// различаются между снимками, в алфавитном порядке. Поле, присутствующее
// только в одном снимке, тоже считается конфликтующим.
func ConflictingFields(local, remote Snapshot) []string {
	seen := make(map[string]struct{}, len(local)+len(remote))
	var fields []string

	check := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}

		lv, lok := local[name]
		rv, rok := remote[name]
		if lok != rok || !valuesEqual(lv, rv) {
			fields = append(fields, name)
		}
	}

	for name := range local {
		check(name)
	}
	for name := range remote {
		check(name)
	}

	sort.Strings(fields)
	return fields
}
