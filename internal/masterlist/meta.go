package masterlist

import "gopkg.in/yaml.v3"

func encodeMeta(m meta) ([]byte, error) {
	return yaml.Marshal(m)
}

func decodeMeta(data []byte) (meta, error) {
	var m meta
	if err := yaml.Unmarshal(data, &m); err != nil {
		return meta{}, err
	}
	return m, nil
}
