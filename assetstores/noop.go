package assetstores

type noopProvider struct{}

func newNoopProvider() *noopProvider {
	return &noopProvider{}
}

func (n *noopProvider) SignURL(url string) (string, error) {
	return url, nil
}
