package reverie

const Version = "0.1.0"
