package utils

import (
	"bufio"
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"regexp"
	"strings"
)

var (
	portRegex   = regexp.MustCompile(`^\d+$`)
	ipRegex     = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)
	domainRegex = regexp.MustCompile(`^[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// GetRandomProxyFromFile obtiene un proxy aleatorio del archivo
func GetRandomProxyFromFile(filename string) (string, error) {
	proxies, _, err := ReadProxiesFromFile(filename)
	if err != nil {
		return "", err
	}

	randomProxy := proxies[rand.Intn(len(proxies))]

	// Asegurar que tenga el esquema http://
	if !strings.HasPrefix(randomProxy, "http://") && !strings.HasPrefix(randomProxy, "https://") {
		randomProxy = "http://" + randomProxy
	}

	return randomProxy, nil
}

// ReadProxiesFromFile lee proxies del archivo y filtra los válidos.
// Devuelve también los números de línea descartados por formato inválido.
func ReadProxiesFromFile(filename string) ([]string, []int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("error abriendo archivo de proxies: %w", err)
	}
	defer file.Close()

	var validProxies []string
	var invalidas []int
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Saltar líneas vacías y comentarios
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if IsValidProxyFormat(line) {
			validProxies = append(validProxies, line)
		} else {
			invalidas = append(invalidas, lineNum)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, invalidas, fmt.Errorf("error leyendo archivo: %w", err)
	}

	if len(validProxies) == 0 {
		return nil, invalidas, fmt.Errorf("no hay proxies válidos en el archivo %s", filename)
	}

	return validProxies, invalidas, nil
}

// IsValidRUC valida que el RUC tenga el formato correcto: 11 dígitos
func IsValidRUC(ruc string) bool {
	if len(ruc) != 11 {
		return false
	}
	return soloDigitos(ruc)
}

// LimpiarRUC deja solo los dígitos de lo que escribió el usuario
func LimpiarRUC(entrada string) string {
	var b strings.Builder
	for _, c := range entrada {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// IsValidProxyFormat valida que el proxy tenga formato IP:PORT
func IsValidProxyFormat(proxy string) bool {
	proxy = strings.TrimSpace(proxy)

	if proxy == "" {
		return false
	}

	// Si tiene http:// o https://, validar como URL completa
	if strings.HasPrefix(proxy, "http://") || strings.HasPrefix(proxy, "https://") {
		_, err := url.Parse(proxy)
		return err == nil
	}

	// Si no tiene esquema, validar como IP:PORT o DOMAIN:PORT
	parts := strings.Split(proxy, ":")
	if len(parts) != 2 {
		return false
	}

	host := parts[0]
	port := parts[1]

	if !portRegex.MatchString(port) || host == "" {
		return false
	}

	return ipRegex.MatchString(host) || domainRegex.MatchString(host) || host == "localhost"
}
