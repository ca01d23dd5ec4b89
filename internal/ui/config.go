package ui

type containerConfig struct {
	Properties struct {
		WidthRatio float64
		Margin     int
	}
	Data struct {
		WidthRatio float64
		Margin     int
	}
	StatusBar struct {
		WidthRatio float64
		Height     int
		Margin     int
	}
}

type containerSizes struct {
	Properties containerSize
	Data       containerSize
	StatusBar  containerSize
}

type containerSize struct {
	Width  int
	Height int
}

var defaultContainerConfig = func() containerConfig {
	var c containerConfig
	c.Properties.WidthRatio = 0.3
	c.Properties.Margin = 2
	c.Data.WidthRatio = 0.7
	c.Data.Margin = 2
	c.StatusBar.WidthRatio = 1.0
	c.StatusBar.Height = 1
	return c
}()

func calculateContainerSizes(windowWidth, windowHeight int) containerSizes {
	config := defaultContainerConfig
	sizes := containerSizes{}

	if windowWidth < 20 {
		windowWidth = 20
	}
	if windowHeight < 10 {
		windowHeight = 10
	}

	topBarHeight := 1
	if windowHeight > topBarHeight {
		windowHeight -= topBarHeight
	}

	panelHeight := windowHeight - config.StatusBar.Height - config.StatusBar.Margin - 2

	sizes.Properties = containerSize{
		Width:  max(10, int(float64(windowWidth)*config.Properties.WidthRatio)-config.Properties.Margin),
		Height: max(3, panelHeight-config.Properties.Margin),
	}
	sizes.Data = containerSize{
		Width:  max(10, int(float64(windowWidth)*config.Data.WidthRatio)-config.Data.Margin),
		Height: max(5, panelHeight-config.Data.Margin),
	}
	sizes.StatusBar = containerSize{
		Width:  max(10, int(float64(windowWidth)*config.StatusBar.WidthRatio)-config.StatusBar.Margin),
		Height: max(1, config.StatusBar.Height),
	}
	return sizes
}
